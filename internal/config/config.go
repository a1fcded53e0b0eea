package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

const (
	DefaultFeedPath       = "data/projects.json"
	DefaultMinStars       = 10
	DefaultMaxResults     = 50
	DefaultMaxTotalStored = 200
	DefaultServerPort     = ":8081"
	DefaultLocale         = "en"
	DefaultSessionTTL     = 30 * time.Minute
	DefaultMigrations     = "file://migrations"
)

type Config struct {
	// * Feed sources, in order of precedence: FeedURL, DBURL, FeedPath
	FeedURL  string
	FeedPath string
	DBURL    string

	GitHubToken    string
	MinStars       int
	MaxResults     int
	MaxTotalStored int
	OutPath        string

	RefreshInterval time.Duration
	RabbitMQURL     string
	MigrationsPath  string

	ServerPort string
	Locale     string
	SessionTTL time.Duration
	Debug      bool
}

// * LoadConfiguration reads the .env file (if any), then the environment
func LoadConfiguration() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		return nil, err
	}

	logger.Info("✅ env content loaded successfully 🎉")
	return cfg, nil
}

// * FromEnv builds a Config from a lookup function, applying defaults and validation
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		FeedURL:        strings.TrimSpace(getenv("FEED_URL")),
		FeedPath:       orDefault(getenv("FEED_PATH"), DefaultFeedPath),
		DBURL:          strings.TrimSpace(getenv("DB_PATH")),
		GitHubToken:    orDefault(getenv("GITHUB_TOKEN"), getenv("GH_API_TOKEN")),
		RabbitMQURL:    strings.TrimSpace(getenv("RABBITMQ_URL")),
		MigrationsPath: orDefault(getenv("MIGRATIONS_PATH"), DefaultMigrations),
		ServerPort:     orDefault(getenv("SERVER_PORT"), DefaultServerPort),
		Locale:         orDefault(getenv("LOCALE"), DefaultLocale),
	}
	cfg.OutPath = orDefault(getenv("OUT_PATH"), cfg.FeedPath)

	var err error
	if cfg.MinStars, err = intVar(getenv, "MIN_STARS", DefaultMinStars, 0); err != nil {
		return nil, err
	}
	if cfg.MaxResults, err = intVar(getenv, "MAX_RESULTS", DefaultMaxResults, 1); err != nil {
		return nil, err
	}
	if cfg.MaxTotalStored, err = intVar(getenv, "MAX_TOTAL_STORED", DefaultMaxTotalStored, 1); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = durationVar(getenv, "REFRESH_INTERVAL", 0); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationVar(getenv, "SESSION_TTL", DefaultSessionTTL); err != nil {
		return nil, err
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}

	if raw := strings.TrimSpace(getenv("DEBUG")); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("DEBUG should be a boolean: %w", err)
		}
		cfg.Debug = debug
	}

	if !strings.HasPrefix(cfg.ServerPort, ":") && !strings.Contains(cfg.ServerPort, ":") {
		cfg.ServerPort = ":" + cfg.ServerPort
	}

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func intVar(getenv func(string) string, key string, fallback, minimum int) (int, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s should be an integer: %w", key, err)
	}
	if v < minimum {
		return 0, fmt.Errorf("%s should be at least %d", key, minimum)
	}
	return v, nil
}

func durationVar(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s should be a duration like 15m: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/KOFI-GYIMAH/github-tail/internal/models"
	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

// * PostgresDB archives every feed run and keeps the projects of the latest one
type PostgresDB struct {
	db *sql.DB
}

var _ models.FeedStore = (*PostgresDB)(nil)

func NewPostgresDB(url string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to open database connection",
			"Could not initialize database connection",
			err,
			errors.LevelError,
		)
	}

	// * Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// * Verify connection
	if err := db.Ping(); err != nil {
		return nil, errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to verify database connection",
			"Database ping failed",
			err,
			errors.LevelError,
		)
	}

	logger.Info("connected to database successfully 🎉")
	return &PostgresDB{db: db}, nil
}

func (p *PostgresDB) Migrate(sourceURL string) error {
	driver, err := postgres.WithInstance(p.db, &postgres.Config{})
	if err != nil {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to create migration driver",
			"Could not initialize migration driver instance",
			err,
			errors.LevelError,
		)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to create migration instance",
			fmt.Sprintf("Could not read migrations from %s", sourceURL),
			err,
			errors.LevelError,
		)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to run migrations",
			"Migration up operation failed",
			err,
			errors.LevelError,
		)
	}

	return nil
}

func (p *PostgresDB) Close() error {
	if err := p.db.Close(); err != nil {
		return errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to close database connection",
			"Error while closing database connection",
			err,
			errors.LevelWarning,
		)
	}
	return nil
}

func (p *PostgresDB) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.New(
			"DB_TRANSACTION_ERROR",
			"Failed to begin transaction",
			"Could not start database transaction",
			err,
			errors.LevelError,
		)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.New(
				"DB_TRANSACTION_ERROR",
				"Transaction failed and rollback encountered error",
				"Transaction error with additional rollback failure",
				fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr),
				errors.LevelError,
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.New(
			"DB_TRANSACTION_ERROR",
			"Failed to commit transaction",
			"Error while committing transaction",
			err,
			errors.LevelError,
		)
	}

	return nil
}

// * SaveFeed records a run and replaces the stored projects, in one transaction
func (p *PostgresDB) SaveFeed(ctx context.Context, feed *models.Feed) error {
	return p.WithTransaction(ctx, func(tx *sql.Tx) error {
		runID, err := p.insertRunTx(ctx, tx, feed)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
			return errors.New(
				"DB_PROJECT_ERROR",
				"Failed to clear projects",
				"Could not remove the projects of the previous run",
				err,
				errors.LevelError,
			)
		}

		for i, repo := range feed.Projects {
			if err := p.insertProjectTx(ctx, tx, i, repo); err != nil {
				return err
			}
		}

		logger.Info("💾 Stored run %d with %d projects", runID, len(feed.Projects))
		return nil
	})
}

func (p *PostgresDB) insertRunTx(ctx context.Context, tx *sql.Tx, feed *models.Feed) (int64, error) {
	query := `
		INSERT INTO feed_runs (
			source_type, query, min_stars, last_updated, count, new_in_this_run, total_available
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var sourceType, sourceQuery any
	var minStars any
	if feed.Source != nil {
		sourceType = nullString(feed.Source.Type)
		sourceQuery = nullString(feed.Source.Query)
		minStars = nullInt(feed.Source.MinStars)
	}

	var id int64
	err := tx.QueryRowContext(ctx, query,
		sourceType, sourceQuery, minStars, nullTime(feed.LastUpdated),
		nullInt(feed.Count), nullInt(feed.NewInThisRun), nullInt(feed.TotalAvailable),
	).Scan(&id)
	if err != nil {
		return 0, errors.New(
			"DB_FEED_ERROR",
			"Failed to record feed run",
			"Could not insert the feed run metadata",
			err,
			errors.LevelError,
		)
	}
	return id, nil
}

func (p *PostgresDB) insertProjectTx(ctx context.Context, tx *sql.Tx, position int, repo models.Repository) error {
	query := `
		INSERT INTO projects (
			position, github_id, name, full_name, html_url, description, stargazers_count,
			language, updated_at, pushed_at, fork, owner_login, owner_avatar_url, owner_html_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var ownerLogin, ownerAvatar, ownerURL any
	if repo.Owner != nil {
		ownerLogin = nullString(repo.Owner.Login)
		ownerAvatar = nullString(repo.Owner.AvatarURL)
		ownerURL = nullString(repo.Owner.HTMLURL)
	}

	var githubID, fork any
	if repo.ID != nil {
		githubID = *repo.ID
	}
	if repo.Fork != nil {
		fork = *repo.Fork
	}

	var description, language any
	if repo.Description != nil {
		description = *repo.Description
	}
	if repo.Language != nil {
		language = *repo.Language
	}

	_, err := tx.ExecContext(ctx, query,
		position, githubID, repo.Name, nullString(repo.FullName), nullString(repo.HTMLURL),
		description, nullInt(repo.StargazersCount), language,
		nullTime(repo.UpdatedAt), nullTime(repo.PushedAt), fork,
		ownerLogin, ownerAvatar, ownerURL,
	)
	if err != nil {
		return errors.New(
			"DB_PROJECT_ERROR",
			"Failed to insert project",
			fmt.Sprintf("Could not insert project '%s' at position %d", repo.DisplayName(), position),
			err,
			errors.LevelError,
		)
	}
	return nil
}

// * LoadFeed rebuilds the latest run; (nil, nil) when no run was recorded yet
func (p *PostgresDB) LoadFeed(ctx context.Context) (*models.Feed, error) {
	query := `
		SELECT source_type, query, min_stars, last_updated, count, new_in_this_run, total_available
		FROM feed_runs
		ORDER BY id DESC
		LIMIT 1
	`

	var (
		sourceType, sourceQuery               sql.NullString
		minStars, count, newInRun, totalAvail sql.NullInt64
		lastUpdated                           sql.NullTime
	)

	err := p.db.QueryRowContext(ctx, query).Scan(
		&sourceType, &sourceQuery, &minStars, &lastUpdated, &count, &newInRun, &totalAvail,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New(
			"DB_FEED_ERROR",
			"Failed to fetch feed run",
			"Could not read the latest feed run",
			err,
			errors.LevelError,
		)
	}

	feed := &models.Feed{
		Source: &models.FeedSource{
			Type:     sourceType.String,
			Query:    sourceQuery.String,
			MinStars: intPtr(minStars),
		},
		Count:          intPtr(count),
		NewInThisRun:   intPtr(newInRun),
		TotalAvailable: intPtr(totalAvail),
	}
	if lastUpdated.Valid {
		feed.LastUpdated = models.NewOptionalTime(lastUpdated.Time)
	}

	projects, err := p.loadProjects(ctx)
	if err != nil {
		return nil, err
	}
	feed.Projects = projects

	return feed, nil
}

func (p *PostgresDB) loadProjects(ctx context.Context) ([]models.Repository, error) {
	query := `
		SELECT github_id, name, full_name, html_url, description, stargazers_count, language,
		       updated_at, pushed_at, fork, owner_login, owner_avatar_url, owner_html_url
		FROM projects
		ORDER BY position
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.New(
			"DB_PROJECT_ERROR",
			"Failed to fetch projects",
			"Could not query stored projects",
			err,
			errors.LevelError,
		)
	}
	defer rows.Close()

	projects := []models.Repository{}
	for rows.Next() {
		var (
			githubID, stars                          sql.NullInt64
			name                                     string
			fullName, htmlURL, description, language sql.NullString
			updatedAt, pushedAt                      sql.NullTime
			fork                                     sql.NullBool
			ownerLogin, ownerAvatar, ownerURL        sql.NullString
		)

		if err := rows.Scan(
			&githubID, &name, &fullName, &htmlURL, &description, &stars, &language,
			&updatedAt, &pushedAt, &fork, &ownerLogin, &ownerAvatar, &ownerURL,
		); err != nil {
			return nil, errors.New(
				"DB_PROJECT_ERROR",
				"Failed to read project",
				"Could not scan a stored project row",
				err,
				errors.LevelError,
			)
		}

		repo := models.Repository{
			Name:            name,
			FullName:        fullName.String,
			HTMLURL:         htmlURL.String,
			StargazersCount: intPtr(stars),
		}
		if githubID.Valid {
			repo.ID = models.Ptr(githubID.Int64)
		}
		if description.Valid {
			repo.Description = models.Ptr(description.String)
		}
		if language.Valid {
			repo.Language = models.Ptr(language.String)
		}
		if updatedAt.Valid {
			repo.UpdatedAt = models.NewOptionalTime(updatedAt.Time)
		}
		if pushedAt.Valid {
			repo.PushedAt = models.NewOptionalTime(pushedAt.Time)
		}
		if fork.Valid {
			repo.Fork = models.Ptr(fork.Bool)
		}
		if ownerLogin.Valid || ownerAvatar.Valid || ownerURL.Valid {
			repo.Owner = &models.Owner{
				Login:     ownerLogin.String,
				AvatarURL: ownerAvatar.String,
				HTMLURL:   ownerURL.String,
			}
		}

		projects = append(projects, repo)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.New(
			"DB_PROJECT_ERROR",
			"Failed to iterate projects",
			"Row iteration failed",
			err,
			errors.LevelError,
		)
	}

	return projects, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullTime(t models.OptionalTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return models.Ptr(int(v.Int64))
}

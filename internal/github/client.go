package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

var (
	baseURL = "https://api.github.com"
)

const (
	userAgent    = "github-tail-fetcher"
	acceptHeader = "application/vnd.github+json"
	maxPerPage   = 100
)

type Client struct {
	httpClient *http.Client
	token      string
	limiter    *RateLimiter
}

func NewClient(token string) *Client {
	rl := NewRateLimiter()

	client := &http.Client{
		Timeout:   20 * time.Second,
		Transport: rl.Middleware(http.DefaultTransport),
	}

	return &Client{
		httpClient: client,
		token:      token,
		limiter:    rl,
	}
}

func (c *Client) makeRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	return resp, nil
}

// * SearchRepositories runs one page of the repository search
func (c *Client) SearchRepositories(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", opts.Query)
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	perPage := opts.PerPage
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}
	params.Set("per_page", strconv.Itoa(perPage))
	page := opts.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	logger.Info("🌐 Calling GitHub Search API: %s", opts.Query)
	resp, err := c.makeRequest(ctx, http.MethodGet, "/search/repositories?"+params.Encode())
	if err != nil {
		return nil, errors.New(
			"GITHUB_API_ERROR",
			"Failed to search repositories on GitHub",
			"Could not connect to GitHub API to run the repository search",
			err,
			errors.LevelError,
		)
	}
	defer resp.Body.Close()

	if isRateLimited(resp) {
		return nil, errors.New(
			"GITHUB_RATE_LIMITED",
			"GitHub rate limit reached",
			fmt.Sprintf("Remaining: %s, Reset: %s",
				headerOr(resp.Header, "X-RateLimit-Remaining", "?"),
				headerOr(resp.Header, "X-RateLimit-Reset", "?")),
			nil,
			errors.LevelFatal,
		)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(
			"GITHUB_API_ERROR",
			"Unexpected response from GitHub API",
			fmt.Sprintf("GitHub API returned status %d for query %q", resp.StatusCode, opts.Query),
			nil,
			errors.LevelError,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(
			"GITHUB_API_ERROR",
			"Failed to read GitHub API response",
			"Could not read the search response body from GitHub API",
			err,
			errors.LevelError,
		)
	}

	var result SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.New(
			"GITHUB_API_ERROR",
			"Failed to parse GitHub API response",
			"Could not understand the search response from GitHub API",
			err,
			errors.LevelError,
		)
	}

	logger.Info("📊 Repositories in this page: %d (total available: %d)", len(result.Items), result.TotalCount)
	return &result, nil
}

// * RateLimitRemaining is the last X-RateLimit-Remaining seen
func (c *Client) RateLimitRemaining() int {
	return c.limiter.Remaining()
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func headerOr(h http.Header, key, fallback string) string {
	if v := h.Get(key); v != "" {
		return v
	}
	return fallback
}

package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KOFI-GYIMAH/github-tail/pkg/errors"
)

func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	originalBaseURL := baseURL
	baseURL = server.URL
	t.Cleanup(func() {
		baseURL = originalBaseURL
		server.Close()
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient("test-token")

	assert.NotNil(t, client)
	assert.Equal(t, "test-token", client.token)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 20*time.Second, client.httpClient.Timeout)
}

func TestClient_makeRequest(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		validateReq func(t *testing.T, r *http.Request)
	}{
		{
			name:  "with token",
			token: "test-token",
			validateReq: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
				assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
				assert.Equal(t, "github-tail-fetcher", r.Header.Get("User-Agent"))
			},
		},
		{
			name:  "without token",
			token: "",
			validateReq: func(t *testing.T, r *http.Request) {
				assert.Empty(t, r.Header.Get("Authorization"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withServer(t, func(w http.ResponseWriter, r *http.Request) {
				tt.validateReq(t, r)
				w.WriteHeader(http.StatusOK)
			})

			resp, err := NewClient(tt.token).makeRequest(context.Background(), http.MethodGet, "/test")
			require.NoError(t, err)
			resp.Body.Close()
		})
	}
}

func TestClient_SearchRepositories(t *testing.T) {
	tests := []struct {
		name          string
		opts          SearchOptions
		handler       http.HandlerFunc
		expectedRef   string
		expectedItems int
	}{
		{
			name: "success",
			opts: SearchOptions{Query: "stars:>=10", Sort: "updated", Order: "desc", PerPage: 50},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search/repositories", r.URL.Path)
				q := r.URL.Query()
				assert.Equal(t, "stars:>=10", q.Get("q"))
				assert.Equal(t, "updated", q.Get("sort"))
				assert.Equal(t, "desc", q.Get("order"))
				assert.Equal(t, "50", q.Get("per_page"))
				assert.Equal(t, "1", q.Get("page"))
				w.Header().Set("X-RateLimit-Remaining", "29")
				w.Write([]byte(`{
					"total_count": 1234,
					"items": [
						{"id": 1, "name": "toolkit", "full_name": "acme/toolkit", "stargazers_count": 12,
						 "description": null, "language": "Go", "updated_at": "2024-03-05T10:00:00Z",
						 "owner": {"login": "acme", "avatar_url": "https://a/acme", "html_url": "https://github.com/acme"}},
						{"id": 2, "name": "app", "full_name": "acme/app", "stargazers_count": 40, "owner": null}
					]
				}`))
			},
			expectedItems: 2,
		},
		{
			name: "per_page capped at 100",
			opts: SearchOptions{Query: "stars:>=0", PerPage: 500},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "100", r.URL.Query().Get("per_page"))
				w.Write([]byte(`{"total_count": 0, "items": []}`))
			},
		},
		{
			name: "rate limited",
			opts: SearchOptions{Query: "stars:>=10"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", "1700000000")
				w.WriteHeader(http.StatusForbidden)
			},
			expectedRef: "GITHUB_RATE_LIMITED",
		},
		{
			name: "server error",
			opts: SearchOptions{Query: "stars:>=10"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedRef: "GITHUB_API_ERROR",
		},
		{
			name: "invalid json",
			opts: SearchOptions{Query: "stars:>=10"},
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`invalid json`))
			},
			expectedRef: "GITHUB_API_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withServer(t, tt.handler)

			client := NewClient("test-token")
			result, err := client.SearchRepositories(context.Background(), tt.opts)

			if tt.expectedRef != "" {
				require.Error(t, err)
				assert.Equal(t, tt.expectedRef, errors.ReferenceOf(err))
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Len(t, result.Items, tt.expectedItems)
		})
	}
}

func TestClient_SearchRepositories_Decoding(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total_count": 5, "items": [
			{"id": 9, "name": "x", "full_name": "o/x", "stargazers_count": 3, "updated_at": "bad",
			 "owner": {"login": "o"}}
		]}`))
	})

	result, err := NewClient("").SearchRepositories(context.Background(), SearchOptions{Query: "q"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, 5, result.TotalCount)
	assert.Equal(t, int64(9), item.ID)
	assert.Nil(t, item.Description)
	assert.False(t, item.UpdatedAt.Valid)
	require.NotNil(t, item.Owner)
	assert.Equal(t, "o", item.Owner.Login)
}

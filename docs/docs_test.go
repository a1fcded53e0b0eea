package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsRegistered(t *testing.T) {
	doc, err := swag.ReadDoc()
	require.NoError(t, err)

	var parsed struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	assert.Equal(t, "/v1", parsed.BasePath)
	for _, path := range []string{"/feed", "/feed/reload", "/sessions", "/sessions/{id}", "/sessions/{id}/search", "/sessions/{id}/min-stars", "/sessions/{id}/next", "/sessions/{id}/prev"} {
		assert.Contains(t, parsed.Paths, path)
	}
	assert.Contains(t, parsed.Paths["/sessions/{id}/search"], "put")
}

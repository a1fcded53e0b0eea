package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/internal/explorer"
	"github.com/KOFI-GYIMAH/github-tail/internal/models"
)

type APIResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type SessionResponse struct {
	ID   string        `json:"id"`
	View explorer.View `json:"view"`
}

type FeedInfo struct {
	Loaded         bool               `json:"loaded"`
	LoadedAt       *time.Time         `json:"loaded_at,omitempty"`
	LastUpdated    *time.Time         `json:"last_updated,omitempty"`
	Count          int                `json:"count"`
	NewInThisRun   *int               `json:"new_in_this_run,omitempty"`
	TotalAvailable *int               `json:"total_available,omitempty"`
	Source         *models.FeedSource `json:"source,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type SearchRequest struct {
	Term string `json:"term"`
}

type MinStarsRequest struct {
	Value RawInput `json:"value" swaggertype:"string" example:"10"`
}

// * RawInput accepts a JSON string or any other JSON scalar as typed text, so
// * {"value": 10} and {"value": "10abc"} both reach the permissive parser
type RawInput string

func (r *RawInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RawInput(s)
		return nil
	}
	*r = RawInput(data)
	return nil
}

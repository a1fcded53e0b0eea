package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// * Owner of a repository as published in the feed. Any field may be empty.
type Owner struct {
	Login     string `json:"login"`
	HTMLURL   string `json:"html_url"`
	AvatarURL string `json:"avatar_url"`
}

// * Repository is one record of the feed. Optional fields are pointers or
// * OptionalTime so absence is explicit; fallbacks are resolved by the view layer.
type Repository struct {
	ID              *int64       `json:"id,omitempty"`
	Name            string       `json:"name"`
	FullName        string       `json:"full_name"`
	HTMLURL         string       `json:"html_url"`
	Description     *string      `json:"description"`
	StargazersCount *int         `json:"stargazers_count"`
	Language        *string      `json:"language"`
	UpdatedAt       OptionalTime `json:"updated_at"`
	PushedAt        OptionalTime `json:"pushed_at"`
	Fork            *bool        `json:"fork,omitempty"`
	Owner           *Owner       `json:"owner"`
}

// * Stars returns stargazers_count, 0 when absent or negative
func (r Repository) Stars() int {
	if r.StargazersCount == nil || *r.StargazersCount < 0 {
		return 0
	}
	return *r.StargazersCount
}

// * DisplayName is full_name, falling back to name
func (r Repository) DisplayName() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Name
}

// * DescriptionText is the description or "" when absent
func (r Repository) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// * OptionalTime is a timestamp that decodes null, "" and unparseable values as absent
// * instead of failing the whole document.
type OptionalTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func NewOptionalTime(t time.Time) OptionalTime {
	return OptionalTime{Time: t, Valid: !t.IsZero()}
}

func ParseOptionalTime(s string) OptionalTime {
	s = strings.TrimSpace(s)
	if s == "" {
		return OptionalTime{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return OptionalTime{Time: t, Valid: true}
		}
	}
	return OptionalTime{}
}

func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	*o = OptionalTime{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// * not a string: treat as absent rather than rejecting the record
		return nil
	}

	*o = ParseOptionalTime(s)
	return nil
}

func (o OptionalTime) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Time.UTC().Format(time.RFC3339))
}

// * Ptr is a small helper for building optional fields
func Ptr[T any](v T) *T {
	return &v
}

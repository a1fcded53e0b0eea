package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

type ErrorLevel int

const (
	LevelFatal ErrorLevel = iota + 1
	LevelError
	LevelWarning
	LevelInfo
)

func (l ErrorLevel) String() string {
	if l < LevelFatal || l > LevelInfo {
		return ""
	}
	return [...]string{"", "Fatal", "Error", "Warning", "Info"}[l]
}

// * Reference codes that change the HTTP status regardless of level
const (
	RefSessionNotFound = "SESSION_NOT_FOUND"
	RefInvalidRequest  = "INVALID_REQUEST"
	RefFeedUnavailable = "FEED_UNAVAILABLE"
)

type ApplicationError struct {
	Reference   string
	Title       string
	Detail      string
	RootCause   error
	Level       ErrorLevel
	OccurredAt  time.Time
	CallerTrace []string
}

func (e *ApplicationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s][%s] %s", e.OccurredAt.Format(time.RFC3339), e.Reference, e.Title)

	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}

	if e.RootCause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.RootCause)
	}

	return b.String()
}

func (e *ApplicationError) Unwrap() error {
	return e.RootCause
}

func New(ref, title, detail string, cause error, level ErrorLevel) *ApplicationError {
	return &ApplicationError{
		Reference:   ref,
		Title:       title,
		Detail:      detail,
		RootCause:   cause,
		Level:       level,
		OccurredAt:  time.Now().UTC(),
		CallerTrace: captureCallerInfo(3),
	}
}

// * ReferenceOf returns the reference of the first ApplicationError in the chain, or ""
func ReferenceOf(err error) string {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Reference
	}
	return ""
}

// * Is reports whether any ApplicationError in the chain carries ref
func Is(err error, ref string) bool {
	for err != nil {
		var appErr *ApplicationError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Reference == ref {
			return true
		}
		err = appErr.RootCause
	}
	return false
}

func captureCallerInfo(skip int) []string {
	pc := make([]uintptr, 10)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pc[:n])

	var trace []string
	for {
		frame, more := frames.Next()
		trace = append(trace, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}

	return trace
}

type HTTPErrorResponse struct {
	Status     int       `json:"status"`
	ErrorRef   string    `json:"error_reference,omitempty"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail,omitempty"`
	Resolution string    `json:"resolution,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

func statusFor(appErr *ApplicationError) (int, string) {
	switch appErr.Reference {
	case RefSessionNotFound:
		return http.StatusNotFound, "Create a new session and retry"
	case RefInvalidRequest:
		return http.StatusBadRequest, ""
	case RefFeedUnavailable:
		return http.StatusBadGateway, "The previous listing is still being served"
	}

	switch appErr.Level {
	case LevelError:
		return http.StatusBadRequest, ""
	case LevelWarning:
		return http.StatusConflict, "Please review your request and try again"
	case LevelInfo:
		return http.StatusOK, ""
	default:
		return http.StatusInternalServerError, "Please contact support with the error reference"
	}
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	var appErr *ApplicationError

	resp := HTTPErrorResponse{
		Status:    http.StatusInternalServerError,
		Title:     "An unexpected error occurred",
		Timestamp: time.Now().UTC(),
	}

	if errors.As(err, &appErr) {
		resp.ErrorRef = appErr.Reference
		resp.Title = appErr.Title
		resp.Detail = appErr.Detail
		resp.Status, resp.Resolution = statusFor(appErr)
	} else {
		resp.Detail = err.Error()
	}

	logger.Error("%v", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}

// Package errors defines the application error type shared by the pipeline and
// its surfaces. Title carries the terse text shown to the person who asked for the
// analysis; Detail and RootCause are for logs.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
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

// Reference codes.
const (
	RefInvalidURL  = "INVALID_REPOSITORY_URL"
	RefNotFound    = "REPOSITORY_NOT_FOUND"
	RefRateLimited = "RATE_LIMITED"
	RefGitHubAPI   = "GITHUB_API_ERROR"
	RefInternal    = "INTERNAL_ERROR"
)

type ApplicationError struct {
	Reference  string
	Title      string
	Detail     string
	RootCause  error
	Level      ErrorLevel
	OccurredAt time.Time
}

func (e *ApplicationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Reference, e.Title)

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
		Reference:  ref,
		Title:      title,
		Detail:     detail,
		RootCause:  cause,
		Level:      level,
		OccurredAt: time.Now().UTC(),
	}
}

// Is reports whether err is an *ApplicationError carrying the given reference.
func Is(err error, ref string) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr) && appErr.Reference == ref
}

// UserMessage returns the text to show the requester for err. Errors that are not
// application errors collapse to a generic message so internals never leak.
func UserMessage(err error) string {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Title
	}
	return "❌ Something went wrong while analyzing the repository."
}

type HTTPErrorResponse struct {
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	ErrorRef  string    `json:"error_reference,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HTTPStatus maps an error to the status code served by the HTTP API.
func HTTPStatus(err error) int {
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Reference {
	case RefInvalidURL:
		return http.StatusBadRequest
	case RefNotFound:
		return http.StatusNotFound
	case RefRateLimited:
		return http.StatusTooManyRequests
	case RefGitHubAPI:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	resp := HTTPErrorResponse{
		Status:    HTTPStatus(err),
		Error:     UserMessage(err),
		Timestamp: time.Now().UTC(),
	}

	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		resp.ErrorRef = appErr.Reference
		resp.Detail = appErr.Detail
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}

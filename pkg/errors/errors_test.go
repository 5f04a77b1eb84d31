package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationError_Error(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := New(RefGitHubAPI, "❌ Error: boom", "fetching octocat/hello", cause, LevelError)

	assert.Equal(t, "[GITHUB_API_ERROR] ❌ Error: boom - fetching octocat/hello (caused by: connection reset)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error", err.Level.String())
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("collect: %w", New(RefNotFound, "missing", "", nil, LevelInfo))

	assert.True(t, Is(err, RefNotFound))
	assert.False(t, Is(err, RefRateLimited))
	assert.False(t, Is(stderrors.New("plain"), RefNotFound))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "title", UserMessage(New(RefInternal, "title", "detail", nil, LevelError)))
	assert.Contains(t, UserMessage(stderrors.New("secret internals")), "Something went wrong")
}

func TestWriteHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantRef    string
	}{
		{"invalid url", New(RefInvalidURL, "bad url", "", nil, LevelInfo), http.StatusBadRequest, RefInvalidURL},
		{"not found", New(RefNotFound, "missing", "", nil, LevelInfo), http.StatusNotFound, RefNotFound},
		{"rate limited", New(RefRateLimited, "slow down", "", nil, LevelWarning), http.StatusTooManyRequests, RefRateLimited},
		{"upstream", New(RefGitHubAPI, "upstream", "", nil, LevelError), http.StatusBadGateway, RefGitHubAPI},
		{"plain error", stderrors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteHTTPError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body HTTPErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantRef, body.ErrorRef)
		})
	}
}

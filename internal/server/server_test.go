package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/gitclawd/internal/domain"
	"github.com/naka-gawa/gitclawd/internal/usecase"
	apperrors "github.com/naka-gawa/gitclawd/pkg/errors"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeRepository(ctx context.Context, ref domain.RepositoryRef, progress usecase.ProgressFunc) (*domain.Report, error) {
	args := m.Called(ctx, ref, progress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func TestServer_Health(t *testing.T) {
	s := New(new(mockAnalyzer), log.New(io.Discard, "", 0))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":{"status":"ok"}}`, rec.Body.String())
}

func TestServer_Analyze(t *testing.T) {
	testCases := []struct {
		name           string
		path           string
		expectedRef    domain.RepositoryRef
		report         *domain.Report
		err            error
		expectedStatus int
		expectedBody   func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "report in the success envelope",
			path:           "/v1/repositories/octocat/Hello-World.git/analysis",
			expectedRef:    domain.RepositoryRef{Owner: "octocat", Name: "Hello-World", URL: "https://github.com/octocat/Hello-World.git"},
			report:         &domain.Report{URL: "https://github.com/octocat/Hello-World", Score: 77.27},
			expectedStatus: http.StatusOK,
			expectedBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "success", body["status"])
				data := body["data"].(map[string]interface{})
				assert.Equal(t, 77.27, data["authenticity_score"])
			},
		},
		{
			name:           "repository not found",
			path:           "/v1/repositories/octocat/missing/analysis",
			expectedRef:    domain.RepositoryRef{Owner: "octocat", Name: "missing", URL: "https://github.com/octocat/missing"},
			err:            apperrors.New(apperrors.RefNotFound, "❌ Repository not found. Make sure it's public.", "fetching repository octocat/missing", nil, apperrors.LevelInfo),
			expectedStatus: http.StatusNotFound,
			expectedBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "❌ Repository not found. Make sure it's public.", body["error"])
				assert.Equal(t, apperrors.RefNotFound, body["error_reference"])
			},
		},
		{
			name:           "rate limited",
			path:           "/v1/repositories/octocat/Hello-World/analysis",
			expectedRef:    domain.RepositoryRef{Owner: "octocat", Name: "Hello-World", URL: "https://github.com/octocat/Hello-World"},
			err:            apperrors.New(apperrors.RefRateLimited, "❌ GitHub API rate limit. Add a GITHUB_TOKEN to your `.env`.", "", nil, apperrors.LevelWarning),
			expectedStatus: http.StatusTooManyRequests,
			expectedBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, float64(http.StatusTooManyRequests), body["status"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := new(mockAnalyzer)
			analyzer.On("AnalyzeRepository", mock.Anything, tc.expectedRef, mock.Anything).Return(tc.report, tc.err)
			var logs bytes.Buffer
			s := New(analyzer, log.New(&logs, "", 0))
			rec := httptest.NewRecorder()

			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			require.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tc.expectedBody(t, body)
			assert.Contains(t, logs.String(), "GET "+tc.path)
			analyzer.AssertExpectations(t)
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := New(new(mockAnalyzer), log.New(io.Discard, "", 0))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/repositories/octocat/Hello-World/analysis", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

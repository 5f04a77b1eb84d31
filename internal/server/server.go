// Package server exposes repository analysis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/naka-gawa/gitclawd/internal/domain"
	"github.com/naka-gawa/gitclawd/internal/usecase"
	apperrors "github.com/naka-gawa/gitclawd/pkg/errors"
)

// AnalysisTimeout bounds a single analysis request.
const AnalysisTimeout = 15 * time.Minute

// Analyzer produces a report for one repository.
type Analyzer interface {
	AnalyzeRepository(ctx context.Context, ref domain.RepositoryRef, progress usecase.ProgressFunc) (*domain.Report, error)
}

// APIResponse is the envelope of every successful answer.
type APIResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type Server struct {
	analyzer Analyzer
	logger   *log.Logger
	router   *mux.Router
}

func New(analyzer Analyzer, logger *log.Logger) *Server {
	s := &Server{analyzer: analyzer, logger: logger, router: mux.NewRouter()}
	s.router.Use(s.loggingMiddleware)
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/repositories/{owner}/{repo}/analysis", s.analyze).Methods(http.MethodGet)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("Server: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Println("Server: shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ref, err := domain.ParseRepositoryURL("https://github.com/" + vars["owner"] + "/" + vars["repo"])
	if err != nil {
		apperrors.WriteHTTPError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), AnalysisTimeout)
	defer cancel()

	report, err := s.analyzer.AnalyzeRepository(ctx, ref, nil)
	if err != nil {
		s.logger.Printf("Server: analysis of %s failed: %v", ref.FullName(), err)
		apperrors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, report, "Successfully analyzed repository")
}

func writeSuccess(w http.ResponseWriter, data interface{}, message ...string) {
	resp := APIResponse{
		Status: "success",
		Data:   data,
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rr *responseRecorder) WriteHeader(code int) {
	rr.statusCode = code
	rr.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rr, r)

		s.logger.Printf("%s %s %d %s", r.Method, r.RequestURI, rr.statusCode, time.Since(start))
	})
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/well-construction-service/internal/domain"
	"github.com/couchcryptid/well-construction-service/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// DocumentBuilder builds the document for one site.
type DocumentBuilder interface {
	Build(ctx context.Context, siteNo string) (*pipeline.Result, error)
}

// Server exposes the document endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	builder    DocumentBuilder
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Each document request runs under
// requestTimeout.
func NewServer(addr string, builder DocumentBuilder, ready ReadinessChecker, logger *slog.Logger, requestTimeout time.Duration) *Server {
	r := chi.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: requestTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		builder: builder,
		logger:  logger,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", handleReady(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/well-construction", s.handleDocument)
		r.Get("/well-construction/{siteNo}", s.handleDocument)
	})

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleDocument serves /well-construction?site_no=<id> and the path form
// /well-construction/<id>. The query parameter wins when both are given.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	siteNo := r.URL.Query().Get(domain.SiteKey)
	if siteNo == "" {
		siteNo = chi.URLParam(r, "siteNo")
	}

	res, err := s.builder.Build(r.Context(), siteNo)
	if err != nil {
		if r.Context().Err() != nil {
			// Timeout answers 504 on deadline; a canceled client has gone.
			return
		}
		writeJSON(w, statusFor(err), domain.ErrorDocument{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res.Document)
}

func statusFor(err error) int {
	switch pipeline.Kind(err) {
	case pipeline.KindNoSiteNumber:
		return http.StatusBadRequest
	case pipeline.KindSiteNotFound, pipeline.KindNoConstruction:
		return http.StatusNotFound
	case pipeline.KindCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client gone
}

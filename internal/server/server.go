// Package server exposes a completed generation run over HTTP.
//
// The preview API serves resolved page payloads, sitemap shards and the
// robots document straight from memory, so rendering layers can be
// developed against real output without touching the filesystem.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/blattwerk/blattwerk/pkg/observability"
	"github.com/blattwerk/blattwerk/pkg/pipeline"
)

// Server serves one pipeline result.
type Server struct {
	result *pipeline.Result
	logger *log.Logger
}

// New creates a server over a completed run.
func New(result *pipeline.Result, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{result: result, logger: logger}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/report", s.handleReport)
	r.Get("/pages/*", s.handlePage)
	r.Get("/sitemap.xml", s.handleSitemapIndex)
	r.Get("/sitemaps/{name}", s.handleSitemapShard)
	r.Get("/robots.txt", s.handleRobots)

	return r
}

// ListenAndServe blocks until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "runId": s.result.RunID})
}

// handleReport summarizes the run: stats, cache info, build warnings
// and the validation report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"runId":        s.result.RunID,
		"snapshotHash": s.result.SnapshotHash,
		"stats":        s.result.Stats,
		"cacheInfo":    s.result.CacheInfo,
		"build":        s.result.Build,
		"validation":   s.result.Validation,
	})
}

// handlePage serves one resolved payload by its site-relative path,
// e.g. GET /pages/sorten/blue-dream.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	path := "/" + chi.URLParam(r, "*")
	data, ok := s.result.Pages[path]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no page at " + path})
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleSitemapIndex(w http.ResponseWriter, r *http.Request) {
	writeXML(w, s.result.Sitemaps.IndexXML)
}

func (s *Server) handleSitemapShard(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	file := s.result.Sitemaps.FileByName(name)
	if file == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no sitemap " + name})
		return
	}
	raw, err := file.XML()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeXML(w, raw)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.result.Sitemaps.Robots))
}

// =============================================================================
// Middleware & Helpers
// =============================================================================

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// observe logs each request and feeds the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, rec.status, duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeXML(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// Package api exposes the translation service over HTTP: EPUB upload,
// job tracking, output download, and provider latency stats.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shwan6160/EPUB-AI-Translator/internal/config"
	"github.com/shwan6160/EPUB-AI-Translator/internal/keystore"
	"github.com/shwan6160/EPUB-AI-Translator/internal/pipeline"
	"github.com/shwan6160/EPUB-AI-Translator/internal/provider"
)

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	jobs   *pipeline.JobStore
	keys   *keystore.Store
	stats  *provider.CallStats
	log    *slog.Logger
	cfg    config.Config

	// workspaceRoot receives uploads, extractions, and outputs.
	workspaceRoot string
}

// NewServer wires the routes and starts the job TTL sweeper.
func NewServer(cfg config.Config, keys *keystore.Store, workspaceRoot string, log *slog.Logger) *Server {
	s := &Server{
		jobs:          pipeline.NewJobStore(cfg.JobTTL),
		keys:          keys,
		stats:         provider.NewCallStats(time.Hour),
		log:           log,
		cfg:           cfg,
		workspaceRoot: workspaceRoot,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey))
		}

		r.Post("/api/translate", s.handleTranslate)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/jobs/{jobID}/download", s.handleJobDownload)
		r.Get("/api/stats/llm", s.handleProviderStats)
	})

	s.router = r
}

// StartCleanup sweeps expired jobs until stop is closed.
func (s *Server) StartCleanup(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.jobs.Cleanup()
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

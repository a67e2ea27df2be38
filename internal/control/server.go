// Package control exposes the local HTTP surface for a running harvest:
// pause/resume toggling, a status snapshot, and Prometheus metrics.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mapleads/lead-harvester/internal/metrics"
	"github.com/mapleads/lead-harvester/internal/scrape"
	"github.com/mapleads/lead-harvester/internal/status"
)

// Server wires HTTP handlers to the pause gate and the result collector.
type Server struct {
	router    chi.Router
	gate      *scrape.Gate
	hub       *status.Hub
	collector *scrape.Collector
	logger    *zap.Logger
}

// NewServer constructs a Server with its routes.
func NewServer(gate *scrape.Gate, hub *status.Hub, collector *scrape.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{gate: gate, hub: hub, collector: collector, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/pause", s.pause)
		r.Post("/resume", s.resume)
		r.Get("/status", s.status)
	})
	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx finishes, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) pause(w http.ResponseWriter, _ *http.Request) {
	s.gate.Pause()
	metrics.SetPaused(true)
	if s.hub != nil {
		s.hub.Report("Run paused.")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (s *Server) resume(w http.ResponseWriter, _ *http.Request) {
	s.gate.Resume()
	metrics.SetPaused(false)
	if s.hub != nil {
		s.hub.Report("Run resumed.")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	var recent []string
	if s.hub != nil {
		recent = s.hub.Recent()
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Paused:  s.gate.Paused(),
		Records: s.collector.Len(),
		Recent:  recent,
	})
}

type statusResponse struct {
	Paused  bool     `json:"paused"`
	Records int      `json:"records"`
	Recent  []string `json:"recent"`
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// The status line is already written; an encode failure here has no
	// recovery path.
	_ = json.NewEncoder(w).Encode(payload)
}

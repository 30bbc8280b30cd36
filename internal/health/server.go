// Package health exposes the keep-alive HTTP endpoints used by the
// hosting platform to probe the bot.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/roaziy/gdg-news-bot/internal/dispatch"
)

// Probe supplies the live state reported by the endpoints.
type Probe interface {
	Connected() bool
	Status() dispatch.Status
}

// Server answers uptime probes on a small JSON API.
type Server struct {
	probe   Probe
	logger  *slog.Logger
	http    *http.Server
	started time.Time
}

func NewServer(port int, probe Probe, logger *slog.Logger) *Server {
	s := &Server{
		probe:   probe,
		logger:  logger.With("component", "health"),
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/info", s.handleStatus)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("health server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]any{
		"service": "gdg-news-bot",
		"message": "GDG Ulaanbaatar tech news bot is running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.probe.Status()

	var lastCheck any
	if status.EverChecked {
		lastCheck = status.LastCheck.UTC().Format(time.RFC3339)
	}

	s.writeJSON(w, map[string]any{
		"status":        "healthy",
		"service":       "gdg-news-bot",
		"uptime":        time.Since(s.started).Round(time.Second).String(),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"bot_connected": s.probe.Connected(),
		"last_check":    lastCheck,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.probe.Status()

	var nextCheck any
	if status.EverChecked {
		nextCheck = status.NextCheck.UTC().Format(time.RFC3339)
	}

	s.writeJSON(w, map[string]any{
		"bot_connected": s.probe.Connected(),
		"sources":       status.Sources,
		"channels":      len(status.Channels),
		"strict_filter": status.StrictFilter,
		"next_check":    nextCheck,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("cannot encode response", "error", err)
	}
}

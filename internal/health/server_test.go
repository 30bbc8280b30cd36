package health

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/roaziy/gdg-news-bot/internal/dispatch"
)

type stubProbe struct {
	connected bool
	status    dispatch.Status
}

func (p *stubProbe) Connected() bool         { return p.connected }
func (p *stubProbe) Status() dispatch.Status { return p.status }

func serveJSON(t *testing.T, s *Server, path string) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	s.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s = %d, want 200", path, rec.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	probe := &stubProbe{
		connected: true,
		status: dispatch.Status{
			EverChecked: true,
			LastCheck:   time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC),
			NextCheck:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			Sources:     []string{"The Verge"},
			Channels:    []string{"123"},
		},
	}
	s := NewServer(0, probe, slog.New(slog.NewTextHandler(io.Discard, nil)))

	payload := serveJSON(t, s, "/health")
	if payload["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", payload["status"])
	}
	if payload["bot_connected"] != true {
		t.Errorf("bot_connected = %v, want true", payload["bot_connected"])
	}
	if payload["last_check"] != "2025-06-15T08:00:00Z" {
		t.Errorf("last_check = %v", payload["last_check"])
	}
}

func TestHealthEndpointBeforeFirstCheck(t *testing.T) {
	t.Parallel()

	s := NewServer(0, &stubProbe{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	payload := serveJSON(t, s, "/health")
	if payload["last_check"] != nil {
		t.Errorf("last_check = %v, want null", payload["last_check"])
	}
	if payload["bot_connected"] != false {
		t.Errorf("bot_connected = %v, want false", payload["bot_connected"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	probe := &stubProbe{
		status: dispatch.Status{
			EverChecked:  true,
			NextCheck:    time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			Sources:      []string{"The Verge", "TechCrunch"},
			Channels:     []string{"123", "456"},
			StrictFilter: true,
		},
	}
	s := NewServer(0, probe, slog.New(slog.NewTextHandler(io.Discard, nil)))

	payload := serveJSON(t, s, "/status")
	if payload["channels"] != float64(2) {
		t.Errorf("channels = %v, want 2", payload["channels"])
	}
	if payload["strict_filter"] != true {
		t.Errorf("strict_filter = %v, want true", payload["strict_filter"])
	}
	if payload["next_check"] != "2025-06-15T12:00:00Z" {
		t.Errorf("next_check = %v", payload["next_check"])
	}
}

func TestRootEndpoint(t *testing.T) {
	t.Parallel()

	s := NewServer(0, &stubProbe{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	payload := serveJSON(t, s, "/")
	if payload["service"] != "gdg-news-bot" {
		t.Errorf("service = %v", payload["service"])
	}
}

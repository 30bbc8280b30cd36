// Package watermark persists the last successful delivery timestamp, the
// only state the bot keeps across restarts.
package watermark

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/roaziy/gdg-news-bot/internal/ports"
)

type record struct {
	LastCheck string `json:"last_check"`
}

// Store reads and writes the watermark file. Safe to call from the scheduler
// on every tick: a missing or corrupt file reads as absent, never an error.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

var _ ports.WatermarkStore = (*Store)(nil)

// NewStore wires the backing file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Read returns the last delivery timestamp, or ok=false when the bot has
// never checked (first run, unreadable file, unparseable contents).
func (s *Store) Read() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cannot read watermark file", "path", s.path, "error", err)
		}
		return time.Time{}, false
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Warn("corrupt watermark file, treating as never checked", "path", s.path, "error", err)
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, rec.LastCheck)
	if err != nil {
		s.logger.Warn("unparseable watermark timestamp, treating as never checked", "value", rec.LastCheck, "error", err)
		return time.Time{}, false
	}

	return t, true
}

// Write persists t. The record lands in a temp file first and is renamed
// into place so a crash mid-write leaves either the old or the new value.
func (s *Store) Write(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(record{LastCheck: t.UTC().Format(time.RFC3339)})
	if err != nil {
		return fmt.Errorf("marshal watermark: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".last_check-*")
	if err != nil {
		return fmt.Errorf("create temp watermark: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp watermark: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp watermark: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename watermark into place: %w", err)
	}

	return nil
}

package dispatch

import (
	"sync"
	"time"
)

const (
	defaultCooldown = 30 * time.Second
	defaultMaxAge   = 5 * time.Minute
)

// Debouncer suppresses duplicate on-demand triggers within a cooldown
// window. Insert and eviction happen under one lock so duplicate gateway
// events can never both pass.
type Debouncer struct {
	mu       sync.Mutex
	cooldown time.Duration
	maxAge   time.Duration
	seen     map[string]time.Time
	now      func() time.Time
}

// NewDebouncer builds a debouncer with the default cooldown window.
func NewDebouncer() *Debouncer {
	return &Debouncer{
		cooldown: defaultCooldown,
		maxAge:   defaultMaxAge,
		seen:     make(map[string]time.Time),
		now:      time.Now,
	}
}

// ShouldProcess reports whether a trigger identified by key may run now, and
// records it if so. Entries older than maxAge are evicted on every call to
// keep the map bounded.
func (d *Debouncer) ShouldProcess(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, at := range d.seen {
		if now.Sub(at) > d.maxAge {
			delete(d.seen, k)
		}
	}

	if at, ok := d.seen[key]; ok && now.Sub(at) < d.cooldown {
		return false
	}

	d.seen[key] = now
	return true
}

package dispatch

import (
	"testing"
	"time"
)

func TestDebouncerSuppressesRapidRepeats(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer()
	d.now = func() time.Time { return now }

	if !d.ShouldProcess("user:chan") {
		t.Fatal("first trigger must pass")
	}
	if d.ShouldProcess("user:chan") {
		t.Fatal("immediate duplicate must be suppressed")
	}

	now = now.Add(10 * time.Second)
	if d.ShouldProcess("user:chan") {
		t.Fatal("duplicate within cooldown must be suppressed")
	}

	now = now.Add(defaultCooldown)
	if !d.ShouldProcess("user:chan") {
		t.Fatal("trigger after cooldown must pass")
	}
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	t.Parallel()

	d := NewDebouncer()
	if !d.ShouldProcess("a") {
		t.Fatal("first trigger for a must pass")
	}
	if !d.ShouldProcess("b") {
		t.Fatal("different key must not be affected by a's cooldown")
	}
}

func TestDebouncerEvictsOldEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	d := NewDebouncer()
	d.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		d.ShouldProcess(key)
	}

	now = now.Add(defaultMaxAge + time.Second)
	d.ShouldProcess("d")

	if len(d.seen) != 1 {
		t.Fatalf("expected stale entries evicted, map holds %d", len(d.seen))
	}
}

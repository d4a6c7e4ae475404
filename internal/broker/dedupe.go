package broker

import (
	"sync"
	"time"
)

// Dedupe remembers recently completed message ids so a redelivered
// duplicate is acknowledged without rerunning its job. Entries expire after
// the retention window to bound memory.
type Dedupe struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	retention time.Duration
}

func NewDedupe(retention time.Duration) *Dedupe {
	return &Dedupe{
		seen:      make(map[string]time.Time),
		retention: retention,
	}
}

// Seen reports whether id completed inside the retention window. Empty ids
// are never deduplicated.
func (d *Dedupe) Seen(id string) bool {
	if id == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.evictLocked()
	_, ok := d.seen[id]
	return ok
}

// Mark records id as completed. Call only after the job finished, so a
// failed attempt stays eligible for redelivery.
func (d *Dedupe) Mark(id string) {
	if id == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.evictLocked()
	d.seen[id] = time.Now()
}

func (d *Dedupe) evictLocked() {
	cutoff := time.Now().Add(-d.retention)
	for k, t := range d.seen {
		if t.Before(cutoff) {
			delete(d.seen, k)
		}
	}
}

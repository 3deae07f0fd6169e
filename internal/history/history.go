// Package history keeps a bounded, most-recent-first record of completed
// translations for the running session.
package history

import (
	"sync"
	"time"
)

const DefaultCapacity = 50

// Entry is one completed translation.
type Entry struct {
	Text       string
	Translated string
	SourceLang string
	TargetLang string
	Provider   string
	Timestamp  time.Time
}

// Ring is an append-only bounded record; adding beyond capacity drops the
// oldest entry.
type Ring struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{capacity: capacity}
}

// Add prepends an entry, truncating the oldest once past capacity.
func (r *Ring) Add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]Entry{e}, r.entries...)
	if len(r.entries) > r.capacity {
		r.entries = r.entries[:r.capacity]
	}
}

// Entries returns a most-recent-first copy.
func (r *Ring) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len reports the number of recorded entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Clear drops all entries.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}

package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is one transient "+1"-style reward marker. Never persisted; it exists
// only to drive one-shot feedback in whatever shell renders the session.
type Event struct {
	ID        string
	Value     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Feed is the ordered collection of currently-visible reward events. Each
// event carries its own expiry timestamp and is removed by a periodic prune
// tick; overlapping events from rapid taps coexist and expire independently.
type Feed struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	events []Event
}

// NewFeed creates a feed whose events live for ttl after creation. A nil now
// means time.Now.
func NewFeed(ttl time.Duration, now func() time.Time) *Feed {
	if now == nil {
		now = time.Now
	}
	return &Feed{
		ttl: ttl,
		now: now,
	}
}

// Add appends a new event and returns it.
func (f *Feed) Add(value string) Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	created := f.now()
	ev := Event{
		ID:        uuid.NewString(),
		Value:     value,
		CreatedAt: created,
		ExpiresAt: created.Add(f.ttl),
	}
	f.events = append(f.events, ev)
	return ev
}

// Active returns the not-yet-expired events in insertion order.
func (f *Feed) Active() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	var active []Event
	for _, ev := range f.events {
		if ev.ExpiresAt.After(now) {
			active = append(active, ev)
		}
	}
	return active
}

// Remove drops the event with the given ID, matching strictly by ID so a
// removal can never take out a neighbouring event. Returns whether an event
// was removed.
func (f *Feed) Remove(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, ev := range f.events {
		if ev.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return true
		}
	}
	return false
}

// Prune discards expired events and returns how many were dropped.
func (f *Feed) Prune() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	kept := f.events[:0]
	for _, ev := range f.events {
		if ev.ExpiresAt.After(now) {
			kept = append(kept, ev)
		}
	}
	dropped := len(f.events) - len(kept)
	f.events = kept
	return dropped
}

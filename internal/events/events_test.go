package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFeed_AddAndActive(t *testing.T) {
	clock := newFakeClock()
	f := NewFeed(time.Second, clock.Now)

	ev := f.Add("+1")
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "+1", ev.Value)
	assert.Equal(t, clock.Now().Add(time.Second), ev.ExpiresAt)

	active := f.Active()
	require.Len(t, active, 1)
	assert.Equal(t, ev.ID, active[0].ID)
}

func TestFeed_InsertionOrder(t *testing.T) {
	clock := newFakeClock()
	f := NewFeed(time.Second, clock.Now)

	first := f.Add("+1")
	second := f.Add("+1")
	third := f.Add("+1")

	active := f.Active()
	require.Len(t, active, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID},
		[]string{active[0].ID, active[1].ID, active[2].ID})
}

func TestFeed_ExpiryAfterTTL(t *testing.T) {
	clock := newFakeClock()
	f := NewFeed(time.Second, clock.Now)

	f.Add("+1")

	clock.Advance(999 * time.Millisecond)
	assert.Len(t, f.Active(), 1)

	clock.Advance(2 * time.Millisecond)
	assert.Empty(t, f.Active())

	assert.Equal(t, 1, f.Prune())
	assert.Equal(t, 0, f.Prune())
}

func TestFeed_OverlappingEventsExpireIndependently(t *testing.T) {
	clock := newFakeClock()
	f := NewFeed(time.Second, clock.Now)

	// Rapid taps: three events, 400 ms apart.
	first := f.Add("+1")
	clock.Advance(400 * time.Millisecond)
	second := f.Add("+1")
	clock.Advance(400 * time.Millisecond)
	third := f.Add("+1")

	// 800 ms after the first: all three visible.
	require.Len(t, f.Active(), 3)

	// 1.1 s after the first: only the first has expired.
	clock.Advance(300 * time.Millisecond)
	f.Prune()
	active := f.Active()
	require.Len(t, active, 2)
	assert.Equal(t, second.ID, active[0].ID)
	assert.Equal(t, third.ID, active[1].ID)
	assert.NotEqual(t, first.ID, active[0].ID)
}

func TestFeed_RemoveMatchesByIDOnly(t *testing.T) {
	clock := newFakeClock()
	f := NewFeed(time.Second, clock.Now)

	// Identical display values; removal must still pick the exact event.
	first := f.Add("+1")
	second := f.Add("+1")

	assert.True(t, f.Remove(second.ID))

	active := f.Active()
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)

	assert.False(t, f.Remove(second.ID), "second removal of same ID should be a no-op")
	assert.False(t, f.Remove("nonexistent"))
}

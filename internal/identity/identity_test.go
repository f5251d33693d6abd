package identity

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapdash/tap-rewards/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestGetOrCreate_CreatesAndPersists(t *testing.T) {
	kv := storage.NewMemory()
	p := NewProvider(kv, testLogger(), fixedClock(1700000000000))

	id := p.GetOrCreate()
	assert.Equal(t, "user_1700000000000", id.ID)

	stored, err := kv.Get("user_id")
	require.NoError(t, err)
	assert.Equal(t, id.ID, stored)
}

func TestGetOrCreate_StableAcrossLoads(t *testing.T) {
	kv := storage.NewMemory()

	first := NewProvider(kv, testLogger(), fixedClock(1700000000000)).GetOrCreate()

	// Second app load, later clock, storage intact: same identity.
	second := NewProvider(kv, testLogger(), fixedClock(1800000000000)).GetOrCreate()
	assert.Equal(t, first.ID, second.ID)
}

func TestGetOrCreate_CachesForSession(t *testing.T) {
	kv := storage.NewMemory()
	p := NewProvider(kv, testLogger(), fixedClock(1700000000000))

	id := p.GetOrCreate()

	// Mutating storage behind the provider's back must not change the
	// cached identity.
	require.NoError(t, kv.Set("user_id", "user_999"))
	assert.Equal(t, id.ID, p.GetOrCreate().ID)
}

type failingKV struct{}

func (failingKV) Get(string) (string, error) { return "", storage.ErrNotFound }
func (failingKV) Set(string, string) error   { return errors.New("quota exceeded") }

func TestGetOrCreate_DegradesWhenStorageUnavailable(t *testing.T) {
	p := NewProvider(failingKV{}, testLogger(), fixedClock(1700000000000))

	// Persistence failure is non-fatal: the session still gets an identity.
	id := p.GetOrCreate()
	assert.Equal(t, "user_1700000000000", id.ID)
	assert.Equal(t, id.ID, p.GetOrCreate().ID)
}

func TestReferralLink_Deterministic(t *testing.T) {
	id := Identity{ID: "user_1700000000000"}

	link := ReferralLink("https://zapdash.app", id)
	assert.Equal(t, "https://zapdash.app?referral=user_1700000000000", link)

	// Pure function: same input, same output.
	assert.Equal(t, link, ReferralLink("https://zapdash.app", id))
}

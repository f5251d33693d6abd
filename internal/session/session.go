package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zapdash/tap-rewards/internal/events"
	"github.com/zapdash/tap-rewards/internal/identity"
	"github.com/zapdash/tap-rewards/internal/ledger"
	"github.com/zapdash/tap-rewards/internal/storage"
)

const copiedNotice = "Referral link copied!"

// Options configures a session.
type Options struct {
	// Origin is the base URL referral links point at.
	Origin    string
	Rewards   ledger.Rewards
	EventTTL  time.Duration
	NoticeTTL time.Duration
	Log       *slog.Logger
	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

// Snapshot is what a shell needs to render one visitor: identity, durable
// ledger state, the live reward events, and the transient notice (empty when
// none is showing).
type Snapshot struct {
	Identity       identity.Identity
	Balance        int64
	CheckedInToday bool
	CompletedTasks []string
	RewardEvents   []events.Event
	Notice         string
}

// Session ties one visitor's identity, ledger and reward-event feed together
// and exposes the operations a shell drives. Handlers may run concurrently,
// so every operation takes the session lock.
type Session struct {
	mu          sync.Mutex
	identity    identity.Identity
	ledger      *ledger.Ledger
	feed        *events.Feed
	origin      string
	noticeTTL   time.Duration
	now         func() time.Time
	notice      string
	noticeUntil time.Time
}

// New establishes a session on kv: identity is loaded or created, then the
// ledger is loaded for it.
func New(kv storage.KV, opts Options) *Session {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	id := identity.NewProvider(kv, opts.Log, now).GetOrCreate()
	feed := events.NewFeed(opts.EventTTL, now)

	return &Session{
		identity:  id,
		ledger:    ledger.Load(kv, id.ID, feed, opts.Rewards, opts.Log, now),
		feed:      feed,
		origin:    opts.Origin,
		noticeTTL: opts.NoticeTTL,
		now:       now,
	}
}

// OnTap adds one tap reward and returns the new balance plus the emitted
// reward event.
func (s *Session) OnTap() (int64, events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Tap()
}

// OnClaimCheckin claims the daily check-in. Returns ledger.ErrAlreadyClaimed
// on a repeat claim within the same day-window.
func (s *Session) OnClaimCheckin() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ClaimCheckin()
}

// OnCompleteTask grants the task reward for name and returns the new balance.
func (s *Session) OnCompleteTask(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CompleteTask(name)
}

// OnCopyReferral returns the referral link and raises the transient "copied"
// notice. A second copy before the first notice hides simply restarts the
// hide window.
func (s *Session) OnCopyReferral() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = copiedNotice
	s.noticeUntil = s.now().Add(s.noticeTTL)
	return identity.ReferralLink(s.origin, s.identity)
}

// ReferralLink returns the shareable link without side effects.
func (s *Session) ReferralLink() string {
	return identity.ReferralLink(s.origin, s.identity)
}

// Snapshot returns everything a shell renders from.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.ledger.Snapshot()

	notice := s.notice
	if notice != "" && !s.noticeUntil.After(s.now()) {
		s.notice = ""
		notice = ""
	}

	return Snapshot{
		Identity:       s.identity,
		Balance:        state.Balance,
		CheckedInToday: state.CheckedInToday,
		CompletedTasks: state.CompletedTasks,
		RewardEvents:   s.feed.Active(),
		Notice:         notice,
	}
}

// PruneEvents drops expired reward events; called on the scheduler tick.
func (s *Session) PruneEvents() int {
	return s.feed.Prune()
}

// RolloverDay re-opens the daily check-in when the day-window has moved on.
// Returns true when the flag was actually reset.
func (s *Session) RolloverDay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.RolloverDay()
}

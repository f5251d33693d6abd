package ledger

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/zapdash/tap-rewards/internal/events"
	"github.com/zapdash/tap-rewards/internal/storage"
)

// ErrAlreadyClaimed signals a repeat daily check-in within the same
// day-window. It is a no-op signal, not a failure.
var ErrAlreadyClaimed = errors.New("daily check-in already claimed")

const dayFormat = "2006-01-02"

// Rewards holds the fixed grant amounts.
type Rewards struct {
	Tap     int64
	Checkin int64
	Task    int64
}

// DefaultRewards matches the original game: +1 per tap, +1 for the daily
// check-in, +100,000 per completed task.
func DefaultRewards() Rewards {
	return Rewards{Tap: 1, Checkin: 1, Task: 100000}
}

// State is a read snapshot of the durable ledger for one identity.
type State struct {
	Balance        int64
	CheckedInToday bool
	CompletedTasks []string
}

// Ledger owns the points balance and daily check-in state for one identity.
// The in-memory copy is authoritative; storage is a durability hint written
// through after every mutation. All operations are synchronous: the new state
// is persisted before the call returns.
type Ledger struct {
	kv      storage.KV
	log     *slog.Logger
	now     func() time.Time
	id      string
	rewards Rewards
	feed    *events.Feed

	balance    int64
	checkedIn  bool
	checkinDay string
	completed  []string
}

// Load reads the ledger for id from kv, defaulting to a fresh ledger
// (balance 0, not checked in) when values are absent or unparsable. A check-in
// flag left over from a previous day is cleared here. A nil now means
// time.Now.
func Load(kv storage.KV, id string, feed *events.Feed, rewards Rewards, log *slog.Logger, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	l := &Ledger{
		kv:      kv,
		log:     log,
		now:     now,
		id:      id,
		rewards: rewards,
		feed:    feed,
	}

	if raw, err := kv.Get("points_" + id); err == nil {
		if balance, err := strconv.ParseInt(raw, 10, 64); err == nil && balance >= 0 {
			l.balance = balance
		}
	}

	if raw, err := kv.Get("checkin_" + id); err == nil {
		l.checkedIn = raw == "true"
	}
	if raw, err := kv.Get("checkin_day_" + id); err == nil {
		l.checkinDay = raw
	}

	if raw, err := kv.Get("tasks_" + id); err == nil {
		var completed []string
		if err := json.Unmarshal([]byte(raw), &completed); err == nil {
			l.completed = completed
		}
	}

	l.rolloverDay()
	return l
}

// Tap adds the tap reward and emits one reward event. Always succeeds; the
// new balance is persisted before returning.
func (l *Ledger) Tap() (int64, events.Event) {
	l.balance += l.rewards.Tap
	l.persistBalance()

	ev := l.feed.Add("+" + strconv.FormatInt(l.rewards.Tap, 10))
	return l.balance, ev
}

// ClaimCheckin grants the daily check-in reward once per day-window. Repeat
// claims within the window return ErrAlreadyClaimed and change nothing, so
// the call is idempotent from the shell's point of view.
func (l *Ledger) ClaimCheckin() (int64, error) {
	l.rolloverDay()

	if l.checkedIn {
		return l.balance, ErrAlreadyClaimed
	}

	l.balance += l.rewards.Checkin
	l.checkedIn = true
	l.checkinDay = l.today()

	l.persistBalance()
	l.persist("checkin_"+l.id, "true")
	l.persist("checkin_day_"+l.id, l.checkinDay)

	return l.balance, nil
}

// CompleteTask grants the task reward. Nothing stops a repeat claim of the
// same task name; the completion is recorded for display but the grant is
// deliberately not deduplicated.
func (l *Ledger) CompleteTask(name string) int64 {
	l.balance += l.rewards.Task
	l.completed = append(l.completed, name)

	l.persistBalance()
	if raw, err := json.Marshal(l.completed); err == nil {
		l.persist("tasks_"+l.id, string(raw))
	}

	return l.balance
}

// Snapshot returns the current durable state.
func (l *Ledger) Snapshot() State {
	l.rolloverDay()

	completed := make([]string, len(l.completed))
	copy(completed, l.completed)

	return State{
		Balance:        l.balance,
		CheckedInToday: l.checkedIn,
		CompletedTasks: completed,
	}
}

// RolloverDay clears the check-in flag when the stored claim day is not
// today. Returns true when a reset happened, so callers can tell the visitor
// their check-in is available again.
func (l *Ledger) RolloverDay() bool {
	return l.rolloverDay()
}

func (l *Ledger) rolloverDay() bool {
	if !l.checkedIn || l.checkinDay == l.today() {
		return false
	}

	l.checkedIn = false
	l.persist("checkin_"+l.id, "false")
	return true
}

func (l *Ledger) today() string {
	return l.now().Format(dayFormat)
}

func (l *Ledger) persistBalance() {
	l.persist("points_"+l.id, strconv.FormatInt(l.balance, 10))
}

// persist writes through to storage. The in-memory value stays authoritative,
// so a failed write only costs durability, never consistency.
func (l *Ledger) persist(key, value string) {
	if err := l.kv.Set(key, value); err != nil {
		l.log.Warn("persist ledger state", "key", key, "error", err)
	}
}

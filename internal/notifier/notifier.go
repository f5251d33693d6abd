package notifier

import (
	"context"
	"log/slog"

	"github.com/zapdash/tap-rewards/internal/session"
	"github.com/zapdash/tap-rewards/internal/telegram"
)

// Notifier tells visitors when their daily check-in opens again.
type Notifier struct {
	sessions *session.Manager
	bot      *telegram.Bot
	log      *slog.Logger
}

// New creates a new Notifier
func New(sessions *session.Manager, bot *telegram.Bot, log *slog.Logger) *Notifier {
	return &Notifier{
		sessions: sessions,
		bot:      bot,
		log:      log,
	}
}

// RolloverDay walks every active session, re-opens check-ins whose day-window
// has passed, and notifies those chats. Sessions that never claimed have
// nothing to reset and are skipped.
func (n *Notifier) RolloverDay(ctx context.Context) {
	n.sessions.ForEach(func(chatID int64, s *session.Session) {
		if !s.RolloverDay() {
			return
		}

		text := "📅 A new day, a new bonus!\n\nYour daily check-in is available again."
		if err := n.bot.SendNotification(ctx, chatID, text, nil); err != nil {
			n.log.Error("send check-in reminder", "chat_id", chatID, "error", err)
			return
		}

		n.log.Info("check-in reminder sent", "chat_id", chatID)
	})
}

package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zapdash/tap-rewards/internal/config"
	"github.com/zapdash/tap-rewards/internal/ledger"
	"github.com/zapdash/tap-rewards/internal/session"
	"github.com/zapdash/tap-rewards/internal/tasks"
)

// Bot wraps the telegram bot with handlers
type Bot struct {
	bot      *bot.Bot
	cfg      *config.Config
	sessions *session.Manager
	catalog  []tasks.Task
	log      *slog.Logger
}

// New creates a new telegram bot
func New(cfg *config.Config, sessions *session.Manager, catalog []tasks.Task, log *slog.Logger) (*Bot, error) {
	b := &Bot{
		cfg:      cfg,
		sessions: sessions,
		catalog:  catalog,
		log:      log,
	}

	opts := []bot.Option{
		bot.WithCallbackQueryDataHandler("", bot.MatchTypePrefix, b.callbackHandler),
	}

	tgBot, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	b.bot = tgBot

	tgBot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.startHandler)
	tgBot.RegisterHandler(bot.HandlerTypeMessageText, "/start ", bot.MatchTypePrefix, b.startHandler)
	tgBot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypeExact, b.balanceHandler)

	return b, nil
}

// Start starts the bot polling
func (b *Bot) Start(ctx context.Context) {
	b.bot.Start(ctx)
}

// --- Handlers ---

func (b *Bot) startHandler(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	s := b.sessions.Get(chatID)
	snap := s.Snapshot()

	b.log.Info("session started", "chat_id", chatID, "identity", snap.Identity.ID)

	b.sendMessage(ctx, chatID, homeText(snap), HomeKeyboard(snap.CheckedInToday))
}

func (b *Bot) balanceHandler(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	snap := b.sessions.Get(chatID).Snapshot()

	text := fmt.Sprintf("Total Balance: <b>%d points</b>", snap.Balance)
	b.sendMessage(ctx, chatID, text, HomeKeyboard(snap.CheckedInToday))
}

func (b *Bot) callbackHandler(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	cb := update.CallbackQuery
	data := cb.Data
	s := b.sessions.Get(chatIDOf(cb))

	switch {
	case data == "tap":
		b.handleTap(ctx, cb, s)
	case data == "checkin":
		b.handleCheckin(ctx, cb, s)
	case data == "tasks":
		b.answerCallback(ctx, cb.ID, "")
		b.showTasks(ctx, cb, s)
	case strings.HasPrefix(data, "task:"):
		b.handleCompleteTask(ctx, cb, s, data)
	case data == "friends":
		b.answerCallback(ctx, cb.ID, "")
		b.showFriends(ctx, cb, s)
	case data == "copy":
		b.handleCopyReferral(ctx, cb, s)
	case data == "back":
		b.answerCallback(ctx, cb.ID, "")
		b.showHome(ctx, cb, s)
	default:
		b.answerCallback(ctx, cb.ID, "")
		b.log.Warn("unknown callback", "data", data, "chat_id", chatIDOf(cb))
	}
}

func (b *Bot) handleTap(ctx context.Context, cb *models.CallbackQuery, s *session.Session) {
	_, ev := s.OnTap()

	// The callback toast is the bot's version of the floating "+1" marker.
	b.answerCallback(ctx, cb.ID, ev.Value)
	b.showHome(ctx, cb, s)
}

func (b *Bot) handleCheckin(ctx context.Context, cb *models.CallbackQuery, s *session.Session) {
	_, err := s.OnClaimCheckin()
	if errors.Is(err, ledger.ErrAlreadyClaimed) {
		b.answerCallback(ctx, cb.ID, "Already checked in today ✅")
		return
	}

	b.answerCallback(ctx, cb.ID, fmt.Sprintf("+%d check-in bonus!", b.cfg.CheckinReward))
	b.showHome(ctx, cb, s)
}

func (b *Bot) handleCompleteTask(ctx context.Context, cb *models.CallbackQuery, s *session.Session, data string) {
	index, err := strconv.Atoi(strings.TrimPrefix(data, "task:"))
	if err != nil || index < 0 || index >= len(b.catalog) {
		b.answerCallback(ctx, cb.ID, "Task not found")
		return
	}

	task := b.catalog[index]
	balance := s.OnCompleteTask(task.Name)

	b.log.Info("task completed", "chat_id", chatIDOf(cb), "task", task.Name, "balance", balance)

	b.answerCallback(ctx, cb.ID, fmt.Sprintf("Task %q completed! You earned %d points.", task.Name, b.cfg.TaskReward))
	b.showTasks(ctx, cb, s)
}

func (b *Bot) handleCopyReferral(ctx context.Context, cb *models.CallbackQuery, s *session.Session) {
	s.OnCopyReferral()

	// The notice lives in the snapshot for its display window; the toast is
	// the immediate feedback.
	snap := s.Snapshot()
	b.answerCallback(ctx, cb.ID, snap.Notice)
	b.showFriends(ctx, cb, s)
}

// --- Views ---

func (b *Bot) showHome(ctx context.Context, cb *models.CallbackQuery, s *session.Session) {
	snap := s.Snapshot()
	b.editMessage(ctx, cb.Message, homeText(snap), HomeKeyboard(snap.CheckedInToday))
}

func (b *Bot) showTasks(ctx context.Context, cb *models.CallbackQuery, s *session.Session) {
	snap := s.Snapshot()

	var lines []string
	lines = append(lines, fmt.Sprintf("💰 <b>Complete Tasks to Earn %d Points</b>\n", b.cfg.TaskReward))
	for _, task := range b.catalog {
		marker := ""
		if contains(snap.CompletedTasks, task.Name) {
			marker = " ✅"
		}
		lines = append(lines, fmt.Sprintf("• %s%s", task.Name, marker))
	}

	b.editMessage(ctx, cb.Message, strings.Join(lines, "\n"), TasksKeyboard(b.catalog))
}

func (b *Bot) showFriends(ctx context.Context, cb *models.CallbackQuery, s *session.Session) {
	text := fmt.Sprintf(
		"👥 <b>Invite Friends!</b>\n\n"+
			"Share this referral link with your friends:\n\n"+
			"<code>%s</code>",
		s.ReferralLink(),
	)

	b.editMessage(ctx, cb.Message, text, FriendsKeyboard())
}

func homeText(snap session.Snapshot) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Total Balance: <b>%d points</b>\n", snap.Balance)

	if len(snap.RewardEvents) > 0 {
		var markers []string
		for _, ev := range snap.RewardEvents {
			markers = append(markers, ev.Value)
		}
		fmt.Fprintf(&sb, "\n✨ %s\n", strings.Join(markers, " "))
	}

	if snap.CheckedInToday {
		sb.WriteString("\nDaily check-in: done ✅")
	} else {
		sb.WriteString("\nDaily check-in: available 📅")
	}

	return sb.String()
}

// --- Helpers ---

func chatIDOf(cb *models.CallbackQuery) int64 {
	if cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID
	}
	return cb.From.ID
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func (b *Bot) answerCallback(ctx context.Context, callbackID, text string) {
	_, err := b.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		b.log.Error("answer callback", "error", err)
	}
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := b.bot.SendMessage(ctx, params)
	if err != nil {
		b.log.Error("send message", "error", err)
	}
}

func (b *Bot) editMessage(ctx context.Context, msg models.MaybeInaccessibleMessage, text string, keyboard *models.InlineKeyboardMarkup) {
	if msg.Message == nil {
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Message.Chat.ID,
		MessageID: msg.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := b.bot.EditMessageText(ctx, params)
	if err != nil {
		b.log.Error("edit message", "error", err)
	}
}

// SendNotification sends a notification message to a chat
func (b *Bot) SendNotification(ctx context.Context, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) error {
	disablePreview := true
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
		LinkPreviewOptions: &models.LinkPreviewOptions{
			IsDisabled: &disablePreview,
		},
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := b.bot.SendMessage(ctx, params)
	return err
}

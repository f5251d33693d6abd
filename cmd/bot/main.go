package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/zapdash/tap-rewards/internal/config"
	"github.com/zapdash/tap-rewards/internal/ledger"
	"github.com/zapdash/tap-rewards/internal/notifier"
	"github.com/zapdash/tap-rewards/internal/session"
	"github.com/zapdash/tap-rewards/internal/storage"
	"github.com/zapdash/tap-rewards/internal/tasks"
	"github.com/zapdash/tap-rewards/internal/telegram"
)

func main() {
	// Setup logger
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(log)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	// Load config
	cfg := config.Load()

	if cfg.BotToken == "" {
		log.Error("BOT_TOKEN is required")
		os.Exit(1)
	}

	// Initialize storage; an unusable database degrades to session-only
	// memory instead of refusing to start.
	var kv storage.KV
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Warn("storage unavailable, running session-only", "path", cfg.DBPath, "error", err)
		kv = storage.NewMemory()
	} else {
		defer store.Close()
		kv = store
		log.Info("storage initialized", "path", cfg.DBPath)
	}

	// Load task catalog
	catalog, err := tasks.Load(cfg.TasksPath)
	if err != nil {
		log.Warn("load task catalog, using built-in defaults", "error", err)
		catalog = tasks.Default()
	}
	log.Info("task catalog loaded", "tasks", len(catalog))

	// Initialize sessions
	sessions := session.NewManager(kv, session.Options{
		Origin: cfg.AppOrigin,
		Rewards: ledger.Rewards{
			Tap:     cfg.TapReward,
			Checkin: cfg.CheckinReward,
			Task:    cfg.TaskReward,
		},
		EventTTL:  cfg.EventTTL,
		NoticeTTL: cfg.NoticeTTL,
		Log:       log,
	})

	// Initialize telegram bot
	bot, err := telegram.New(cfg, sessions, catalog, log)
	if err != nil {
		log.Error("init telegram bot", "error", err)
		os.Exit(1)
	}
	log.Info("telegram bot initialized")

	// Initialize notifier
	notify := notifier.New(sessions, bot, log)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduler: prune expired reward events every second, roll the
	// check-in day-window over at midnight.
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Error("init scheduler", "error", err)
		os.Exit(1)
	}

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Second),
		gocron.NewTask(func() {
			sessions.ForEach(func(chatID int64, s *session.Session) {
				s.PruneEvents()
			})
		}),
	)

	_, _ = sched.NewJob(
		gocron.CronJob("0 0 * * *", false),
		gocron.NewTask(func() {
			notify.RolloverDay(ctx)
		}),
	)

	sched.Start()
	defer func() { _ = sched.Shutdown() }()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info("shutting down...")
		cancel()
	}()

	// Start bot polling
	log.Info("starting bot polling...")
	bot.Start(ctx)
}

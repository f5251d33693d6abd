package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	BotToken    string
	BotUsername string

	// Database
	DBPath string

	// Referral
	AppOrigin string

	// Tasks
	TasksPath string

	// Rewards
	TapReward     int64
	CheckinReward int64
	TaskReward    int64

	// Display lifetimes
	EventTTL  time.Duration
	NoticeTTL time.Duration
}

func Load() *Config {
	return &Config{
		// Telegram
		BotToken:    getEnv("BOT_TOKEN", ""),
		BotUsername: getEnv("BOT_USERNAME", "zapdash_bot"),

		// Database
		DBPath: getEnv("DB_PATH", "./rewards.db"),

		// Referral
		AppOrigin: getEnv("APP_ORIGIN", "https://zapdash.app"),

		// Tasks
		TasksPath: getEnv("TASKS_PATH", ""),

		// Rewards
		TapReward:     int64(getEnvInt("TAP_REWARD", 1)),
		CheckinReward: int64(getEnvInt("CHECKIN_REWARD", 1)),
		TaskReward:    int64(getEnvInt("TASK_REWARD", 100000)),

		// Display lifetimes
		EventTTL:  time.Duration(getEnvInt("EVENT_TTL_MS", 1000)) * time.Millisecond,
		NoticeTTL: time.Duration(getEnvInt("NOTICE_TTL_MS", 1500)) * time.Millisecond,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

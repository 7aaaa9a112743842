package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	TelegramToken         string
	LLMAPIURL             string
	LLMAPIKey             string
	CardsPerSession       int
	NotificationStartHour int
	NotificationEndHour   int
	ImportWorkerCount     int
	ImportQueueSize       int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "quizbot.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		TelegramToken:         envOr("TELEGRAM_BOT_TOKEN", ""),
		LLMAPIURL:             envOr("LLM_API_URL", ""),
		LLMAPIKey:             envOr("LLM_API_KEY", ""),
		CardsPerSession:       envIntOr("CARDS_PER_SESSION", 20),
		NotificationStartHour: envIntOr("NOTIFICATION_START_HOUR", 8),
		NotificationEndHour:   envIntOr("NOTIFICATION_END_HOUR", 22),
		ImportWorkerCount:     envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:       envIntOr("IMPORT_QUEUE_SIZE", 32),
	}
}

// Validate checks the loaded configuration and returns all problems at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.CardsPerSession < 1 {
		problems = append(problems, "CARDS_PER_SESSION must be at least 1")
	}
	if c.NotificationStartHour < 0 || c.NotificationStartHour > 23 {
		problems = append(problems, "NOTIFICATION_START_HOUR must be between 0 and 23")
	}
	if c.NotificationEndHour < 0 || c.NotificationEndHour > 23 {
		problems = append(problems, "NOTIFICATION_END_HOUR must be between 0 and 23")
	}
	if c.ImportWorkerCount < 1 {
		problems = append(problems, "IMPORT_WORKER_COUNT must be at least 1")
	}
	if c.ImportQueueSize < 1 {
		problems = append(problems, "IMPORT_QUEUE_SIZE must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string `validate:"required"`
	DBPath            string `validate:"required"`
	LogLevel          string `validate:"oneof=DEBUG INFO WARN ERROR"`
	FlashcardQueueLen int    `validate:"gte=1,lte=100"`
	StatsWindowDays   int    `validate:"gte=1,lte=365"`
	StatsTopTags      int    `validate:"gte=1,lte=10"`
	JanitorWorkers    int    `validate:"gte=1"`
	JanitorQueueSize  int    `validate:"gte=1"`
	JanitorIntervalMn int    `validate:"gte=1"`
	SessionIdleCutoff int    `validate:"gte=1"` // hours before an active session is considered abandoned
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg := Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:linguaflash.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		FlashcardQueueLen: envIntOr("FLASHCARD_QUEUE_LEN", 10),
		StatsWindowDays:   envIntOr("STATS_WINDOW_DAYS", 7),
		StatsTopTags:      envIntOr("STATS_TOP_TAGS", 3),
		JanitorWorkers:    envIntOr("JANITOR_WORKER_COUNT", 1),
		JanitorQueueSize:  envIntOr("JANITOR_QUEUE_SIZE", 8),
		JanitorIntervalMn: envIntOr("JANITOR_INTERVAL_MINUTES", 60),
		SessionIdleCutoff: envIntOr("SESSION_IDLE_CUTOFF_HOURS", 24),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the loaded values against the struct's validation tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

var validate = validator.New()

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

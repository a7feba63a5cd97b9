package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/smarquez/linguaflash/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:              ":8080",
		DBPath:            "test.db",
		LogLevel:          "INFO",
		FlashcardQueueLen: 10,
		StatsWindowDays:   7,
		StatsTopTags:      3,
		JanitorWorkers:    1,
		JanitorQueueSize:  8,
		JanitorIntervalMn: 60,
		SessionIdleCutoff: 24,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "LOUD"
	assert.Error(t, cfg.Validate())
}

func TestValidate_QueueLenOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.FlashcardQueueLen = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 7, cfg.StatsWindowDays)
	assert.Equal(t, 10, cfg.FlashcardQueueLen)
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Clearenv()
	t.Setenv("ADDR", ":9999")
	t.Setenv("STATS_WINDOW_DAYS", "14")
	t.Setenv("FLASHCARD_QUEUE_LEN", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 14, cfg.StatsWindowDays)
	assert.Equal(t, 10, cfg.FlashcardQueueLen, "invalid int should fall back to default")
}

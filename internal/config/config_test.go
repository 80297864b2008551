package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("RUN_AT", "")
	t.Setenv("BACKFILL_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "routine_tracker.db", cfg.DatabaseURL)
	assert.Equal(t, "00:05", cfg.RunAt)
	assert.Equal(t, 7, cfg.BackfillDays)
	assert.Empty(t, cfg.TelegramToken, "bot is optional")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "data/tracker.db")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("RUN_AT", "06:30")
	t.Setenv("BACKFILL_DAYS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data/tracker.db", cfg.DatabaseURL)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "06:30", cfg.RunAt)
	assert.Equal(t, 0, cfg.BackfillDays)
}

func TestLoadRejectsNegativeBackfill(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("RUN_AT", "")
	t.Setenv("BACKFILL_DAYS", "-3")

	_, err := Load()
	require.Error(t, err)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the daemon.
type Config struct {
	// DatabaseURL is the SQLite DSN.
	DatabaseURL string
	// TelegramToken enables the report bot when set; empty runs the
	// scheduler headless.
	TelegramToken string
	// RunAt is the HH:MM local time of the daily materialization run.
	RunAt string
	// BackfillDays is how far back the startup catch-up reaches.
	BackfillDays int
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		RunAt:         strings.TrimSpace(os.Getenv("RUN_AT")),
		BackfillDays:  parseDays(strings.TrimSpace(os.Getenv("BACKFILL_DAYS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "routine_tracker.db"
	}

	if cfg.RunAt == "" {
		cfg.RunAt = "00:05"
	}

	if cfg.BackfillDays < 0 {
		return cfg, fmt.Errorf("BACKFILL_DAYS must not be negative")
	}

	return cfg, nil
}

func parseDays(raw string) int {
	if raw == "" {
		return 7
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 7
	}
	return days
}

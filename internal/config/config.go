package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	TokenTTL      time.Duration
	TelegramToken string // optional; digests disabled when empty
	DigestTime    string // HH:MM local time; digests disabled when empty
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:          strings.TrimSpace(os.Getenv("PORT")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		TokenTTL:      parseTTL(strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS"))),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DigestTime:    strings.TrimSpace(os.Getenv("DIGEST_TIME")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskplan.db"
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = 72 * time.Hour
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseTTL(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return 0
	}
	return time.Duration(hours) * time.Hour
}

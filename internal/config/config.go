package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type AppConfig struct {
	BridgeBaseURL string
	BridgeWSURL   string
	BotToken      string

	BotPrefix string

	RedisURL    string
	DatabaseURL string

	AllowedChannels []string

	MaxConcurrentDuels int
	TurnTimeout        time.Duration
	BaseHP             int
	BaseManaGain       int
	HandSize           int

	MessageOverrideDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		MaxConcurrentDuels: 200,
		TurnTimeout:        3 * time.Minute,
		BaseHP:             5000,
		BaseManaGain:       5,
		HandSize:           5,
	}

	cfg.BridgeBaseURL = strings.TrimSpace(os.Getenv("DISCORD_BRIDGE_BASE_URL"))
	cfg.BridgeWSURL = strings.TrimSpace(os.Getenv("DISCORD_BRIDGE_WS_URL"))
	cfg.BotToken = strings.TrimSpace(os.Getenv("DISCORD_BOT_TOKEN"))
	cfg.BotPrefix = strings.TrimSpace(os.Getenv("BOT_PREFIX"))

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MessageOverrideDir = strings.TrimSpace(os.Getenv("MESSAGE_OVERRIDE_DIR"))

	if v := strings.TrimSpace(os.Getenv("ALLOWED_CHANNELS")); v != "" {
		for _, p := range strings.Split(v, ",") {
			s := strings.TrimSpace(p)
			if s != "" {
				cfg.AllowedChannels = append(cfg.AllowedChannels, s)
			}
		}
	}

	if v := strings.TrimSpace(os.Getenv("MAX_CONCURRENT_DUELS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrentDuels = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHOUKAN_TURN_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TurnTimeout = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHOUKAN_BASE_HP")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BaseHP = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHOUKAN_BASE_MANA")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BaseManaGain = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SHOUKAN_HAND_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HandSize = n
		}
	}

	if cfg.BridgeBaseURL == "" {
		return nil, errors.New("DISCORD_BRIDGE_BASE_URL is required")
	}
	if cfg.BridgeWSURL == "" {
		return nil, errors.New("DISCORD_BRIDGE_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}

	return cfg, nil
}

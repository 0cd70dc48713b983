// Package config holds the bot's environment-driven configuration and the
// campaign tunables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is everything the bot needs at boot. Mandatory fields missing from
// the environment fail Load; everything else has a usable default.
type Config struct {
	// BotToken is the Telegram Bot API token. Mandatory.
	BotToken string
	// BotUsername (without the "@") builds the join deep-link URL. Mandatory.
	BotUsername string
	// AdminIDs are the Telegram user IDs allowed to run admin commands. Mandatory.
	AdminIDs map[int64]bool
	// Language selects the localization catalog ("en", "ru").
	Language string

	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// APIAddr is the listen address of the gin ops surface.
	APIAddr string
	// APISecret gates JWT issuance for the ops API. The API routes are
	// disabled when empty.
	APISecret string
}

// Load reads the configuration from the environment. godotenv is expected to
// have been loaded by the caller.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:      strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		BotUsername:   strings.TrimPrefix(strings.TrimSpace(os.Getenv("BOT_USERNAME")), "@"),
		Language:      getenvDefault("SANTA_LANG", "en"),
		DatabaseDSN:   getenvDefault("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=santagogo port=5432 sslmode=disable"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		APIAddr:       getenvDefault("API_ADDR", ":8080"),
		APISecret:     os.Getenv("API_SECRET"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("missing env BOT_TOKEN")
	}
	if cfg.BotUsername == "" {
		return nil, fmt.Errorf("missing env BOT_USERNAME")
	}

	cfg.AdminIDs = ParseAdminIDs(os.Getenv("ADMIN_IDS"))
	if len(cfg.AdminIDs) == 0 {
		return nil, fmt.Errorf("missing env ADMIN_IDS (comma-separated Telegram numeric IDs)")
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = n
	}

	return cfg, nil
}

// IsAdmin reports whether the given Telegram user may run admin commands.
func (c *Config) IsAdmin(userID int64) bool {
	return c.AdminIDs[userID]
}

// ParseAdminIDs parses a comma-separated list of numeric Telegram user IDs,
// silently skipping blanks and malformed entries.
func ParseAdminIDs(raw string) map[int64]bool {
	ids := make(map[int64]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = true
	}
	return ids
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[int64]bool
	}{
		{"single id", "123", map[int64]bool{123: true}},
		{"several with spaces", " 1, 2 ,3 ", map[int64]bool{1: true, 2: true, 3: true}},
		{"skips malformed entries", "1,abc,,2", map[int64]bool{1: true, 2: true}},
		{"empty input", "", map[int64]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAdminIDs(tt.raw))
		})
	}
}

func TestLoad(t *testing.T) {
	setAll := func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "123:abc")
		t.Setenv("BOT_USERNAME", "@santa_test_bot")
		t.Setenv("ADMIN_IDS", "10,20")
		t.Setenv("REDIS_DB", "")
	}

	t.Run("full environment", func(t *testing.T) {
		setAll(t)
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "123:abc", cfg.BotToken)
		assert.Equal(t, "santa_test_bot", cfg.BotUsername, "leading @ is stripped")
		assert.True(t, cfg.IsAdmin(10))
		assert.True(t, cfg.IsAdmin(20))
		assert.False(t, cfg.IsAdmin(30))
	})

	t.Run("missing bot token", func(t *testing.T) {
		setAll(t)
		t.Setenv("BOT_TOKEN", "")
		_, err := Load()
		assert.ErrorContains(t, err, "BOT_TOKEN")
	})

	t.Run("missing bot username", func(t *testing.T) {
		setAll(t)
		t.Setenv("BOT_USERNAME", "")
		_, err := Load()
		assert.ErrorContains(t, err, "BOT_USERNAME")
	})

	t.Run("no usable admin ids", func(t *testing.T) {
		setAll(t)
		t.Setenv("ADMIN_IDS", "not-a-number")
		_, err := Load()
		assert.ErrorContains(t, err, "ADMIN_IDS")
	})

	t.Run("bad redis db", func(t *testing.T) {
		setAll(t)
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.ErrorContains(t, err, "REDIS_DB")
	})
}

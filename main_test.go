package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPath(t *testing.T) {
	t.Run("Environment override wins", func(t *testing.T) {
		t.Setenv(configPathEnv, "/etc/chess/config.yml")

		assert.Equal(t, "/etc/chess/config.yml", configPath())
	})

	t.Run("Defaults to config.yml in the working directory", func(t *testing.T) {
		t.Setenv(configPathEnv, "")

		wd, err := os.Getwd()
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(wd, "config.yml"), configPath())
	})
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{name: "debug", level: "debug", enabled: slog.LevelDebug, muted: slog.LevelDebug - 1},
		{name: "warn", level: "warn", enabled: slog.LevelWarn, muted: slog.LevelInfo},
		{name: "error", level: "error", enabled: slog.LevelError, muted: slog.LevelWarn},
		{name: "unknown falls back to info", level: "loud", enabled: slog.LevelInfo, muted: slog.LevelDebug},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := newLogger(tc.level)

			assert.True(t, logger.Enabled(ctx, tc.enabled))
			assert.False(t, logger.Enabled(ctx, tc.muted))
		})
	}
}

package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/custodia-labs/resumelens/internal/config"
)

// runLoad runs a throwaway app with the real flags and returns the loaded config.
func runLoad(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var (
		cfg     *config.Config
		loadErr error
	)
	app := &cli.App{
		Name:  "resumelens",
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			cfg, loadErr = loadConfig(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"resumelens"}, args...)))
	return cfg, loadErr
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := runLoad(t)
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, config.BackendMemory, cfg.Session.Backend)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "server:\n  port: 9100\nsession:\n  max_sessions: 3\n  ttl: 5m\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	t.Setenv("MAX_SESSIONS", "7")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := runLoad(t, "--config", path, "--port", "9200", "--session-ttl-minutes", "12")
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port, "flag beats file")
	assert.Equal(t, 7, cfg.Session.MaxSessions, "environment beats file")
	assert.Equal(t, 12*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := runLoad(t, "--top-k", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_k")

	_, err = runLoad(t, "--session-backend", "sqlite")
	require.Error(t, err)
}

func TestConfigCommand_RedactsSecrets(t *testing.T) {
	var out bytes.Buffer
	app := &cli.App{
		Name:     "resumelens",
		Flags:    globalFlags(),
		Writer:   &out,
		Commands: []*cli.Command{{Name: "config", Action: configCommand}},
	}

	err := app.Run([]string{"resumelens", "--embedding-api-key", "sk-secret", "config"})
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "sk-secret")
	assert.Contains(t, out.String(), "REDACTED")
	assert.Contains(t, out.String(), "max_chunk_size: 1000")
}

func TestSetupLogger(t *testing.T) {
	logger := setupLogger(config.LogConfig{Level: "warn", Format: "json"})
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))
	assert.Same(t, logger, slog.Default())
}

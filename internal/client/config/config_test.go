package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notify.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Empty(t, c.Host)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "notify.db", c.DatabasePath)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "notify.log", c.LogFile)
}

func TestLoad_NoSources(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestLoad_JSONOverridesDefaults(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"host":            "10.0.0.1:8085",
		"request_timeout": "3s",
		"log_level":       "debug",
	})

	cfg, err := Load([]string{"-c", path})
	require.NoError(t, err)

	want := defaults()
	want.Host = "10.0.0.1:8085"
	want.RequestTimeout = 3 * time.Second
	want.LogLevel = "debug"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestLoad_SubSecondTimeoutSurvivesFlags(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"2500ms", 2500 * time.Millisecond},
		{"500ms", 500 * time.Millisecond},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			path := writeTempJSON(t, map[string]any{"request_timeout": tc.raw})

			cfg, err := Load([]string{"-c", path, "-a", "h:1"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.RequestTimeout)
		})
	}
}

func TestLoad_EnvOverridesJSON(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"host": "from-json:1", "database_path": "json.db"})
	t.Setenv("NOTIFY_HOST", "from-env:2")

	cfg, err := Load([]string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "from-env:2", cfg.Host)
	assert.Equal(t, "json.db", cfg.DatabasePath)
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"host": "from-json:1"})
	t.Setenv("NOTIFY_HOST", "from-env:2")
	t.Setenv("NOTIFY_LOG_FILE", "env.log")

	cfg, err := Load([]string{"-c", path, "-a", "from-flag:3", "-t", "5", "-d", "flag.db"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag:3", cfg.Host)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "flag.db", cfg.DatabasePath)
	assert.Equal(t, "env.log", cfg.LogFile)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "absent.json")})
		require.ErrorContains(t, err, "config file")
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
		_, err := Load([]string{"-c", bad})
		require.ErrorContains(t, err, "config file")
	})

	t.Run("bad timeout flag", func(t *testing.T) {
		_, err := Load([]string{"-t", "abc"})
		require.ErrorContains(t, err, "flags")
	})
}

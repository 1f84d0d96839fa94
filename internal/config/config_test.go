package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupConfigEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	t.Setenv(EnvPrefix+"CONFIG_PATH", "")
	t.Cleanup(reset)
	return tmp
}

func TestLoadAndGet(t *testing.T) {
	setupConfigEnv(t)
	Load()

	require.Equal(t, "default", Get("missing", "default"))
	require.Equal(t, "sqlite", Get("storage_backend", ""))
	require.Equal(t, 10000, GetInt("newness_window_ms", 0))
	require.Equal(t, 4*time.Second, GetMillis("toast_display_ms", 0))
	require.True(t, GetBool("haptics_enabled", false))
}

func TestDefaultDirsFollowXDG(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	require.Equal(t, filepath.Join(tmp, "config", "sos-inbox"), Get("config_dir", ""))
	require.Equal(t, filepath.Join(tmp, "state", "sos-inbox"), Get("state_dir", ""))
}

func TestConfigLoadingPrecedence(t *testing.T) {
	tmp := setupConfigEnv(t)
	configFile := filepath.Join(tmp, "custom.toml")
	content := `
storage_backend = "postgres"
owner_id = "from-file"
poll_interval_ms = 250
haptics_enabled = false
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv(EnvPrefix+"CONFIG_PATH", configFile)
	t.Setenv(EnvPrefix+"OWNER_ID", "from-env")

	Load()

	require.Equal(t, "from-env", Get("owner_id", ""), "environment should override config file")
	require.Equal(t, "postgres", Get("storage_backend", ""))
	require.Equal(t, 250, GetInt("poll_interval_ms", 0))
	require.False(t, GetBool("haptics_enabled", true))
}

func TestDotEnvBelowProcessEnv(t *testing.T) {
	tmp := setupConfigEnv(t)
	configDir := filepath.Join(tmp, "config", "sos-inbox")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	dotenv := "SOS_INBOX_OWNER_ID=dotenv-owner\nSOS_INBOX_REDIS_ADDR=localhost:6379\nUNRELATED=1\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, DotEnvFile), []byte(dotenv), 0644))
	t.Setenv(EnvPrefix+"REDIS_ADDR", "redis:6379")

	Load()

	require.Equal(t, "dotenv-owner", Get("owner_id", ""))
	require.Equal(t, "redis:6379", Get("redis_addr", ""), "process env should win over .env")
	require.Equal(t, "", Get("unrelated", ""))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	setupConfigEnv(t)
	t.Setenv(EnvPrefix+"NEWNESS_WINDOW_MS", "-5")
	t.Setenv(EnvPrefix+"STORAGE_BACKEND", "mongodb")
	t.Setenv(EnvPrefix+"HAPTICS_ENABLED", "maybe")
	t.Setenv(EnvPrefix+"LOGGING_LEVEL", "WARN")

	Load()

	require.Equal(t, "10000", Get("newness_window_ms", ""))
	require.Equal(t, "sqlite", Get("storage_backend", ""))
	require.Equal(t, "true", Get("haptics_enabled", ""))
	require.Equal(t, "warn", Get("logging_level", ""))
}

func TestSampleConfigCreated(t *testing.T) {
	tmp := setupConfigEnv(t)
	Load()

	data, err := os.ReadFile(filepath.Join(tmp, "config", "sos-inbox", "config.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), "# sos-inbox configuration")
	require.Contains(t, string(data), "newness_window_ms = 10000")
	require.NotContains(t, string(data), "state_dir")
}

func TestGetMillisDefaults(t *testing.T) {
	setupConfigEnv(t)
	Load()

	require.Equal(t, time.Second, GetMillis("missing_ms", time.Second))
}

func TestNormalizeBool(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"yes", "true"},
		{"ON", "true"},
		{"0", "false"},
		{"off", "false"},
		{"perhaps", "perhaps"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeBool(tt.in))
		})
	}
}

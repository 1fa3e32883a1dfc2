package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDataFile, EnvLogLevel, EnvLogFile, EnvRejectPast} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "data/sid.txt", cfg.DataFile)
	require.Equal(t, "warn", cfg.LogLevel)
	require.False(t, cfg.RejectPastDates)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "sid.yaml", "data_file: /tmp/tasks.txt\nreject_past_dates: true\nlog_level: DEBUG\nframe_width: 40\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/tasks.txt", cfg.DataFile)
	require.True(t, cfg.RejectPastDates)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 40, cfg.FrameWidth)
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "sid.toml", "data_file = \"tasks.txt\"\nlog_level = \"warning\"\nlog_file = \"sid.log\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "tasks.txt", cfg.DataFile)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "sid.log", cfg.LogFile)
	require.Equal(t, 60, cfg.FrameWidth)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "sid.yml", "data_file: from-file.txt\nlog_level: info\n")
	t.Setenv(EnvDataFile, "from-env.txt")
	t.Setenv(EnvRejectPast, "true")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env.txt", cfg.DataFile)
	require.Equal(t, "info", cfg.LogLevel)
	require.True(t, cfg.RejectPastDates)

	t.Setenv(EnvRejectPast, "sometimes")
	_, err = Load(path)
	require.ErrorContains(t, err, EnvRejectPast)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "sid.yaml", "log_level: loud\n"))
	require.ErrorContains(t, err, "invalid config")

	_, err = Load(writeFile(t, "sid.yaml", "frame_width: 5\n"))
	require.ErrorContains(t, err, "invalid config")

	_, err = Load(writeFile(t, "sid.json", "{}"))
	require.ErrorContains(t, err, "unsupported config format")

	_, err = Load(writeFile(t, "sid.yaml", "data_file: [oops\n"))
	require.Error(t, err)
}

func TestNormalizeAfterOverride(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = " Warning "
	cfg.DataFile = " tasks.txt "
	cfg.Normalize()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, "tasks.txt", cfg.DataFile)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ROTIPANI_STORAGE", "ROTIPANI_TIMEZONE", "ROTIPANI_DEBUG", "ROTIPANI_LOG_LEVEL", "ROTIPANI_CACHE_MB"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(Flags{Storage: filepath.Join(dir, "rotipani.db"), EnvFile: noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "rotipani.db"), cfg.Storage)
	assert.Equal(t, "Local", cfg.Timezone)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 1, cfg.CacheMB)
	assert.Empty(t, cfg.SettingsFile)
	assert.Equal(t, dir, cfg.ConfigDir())
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "rotipani.db")

	settings := filepath.Join(dir, SettingsFileName)
	require.NoError(t, os.WriteFile(settings, []byte("timezone: Asia/Kolkata\ncache_mb: 4\ndebug: true\nlog_level: info\n"), 0600))

	cfg, err := Load(Flags{Storage: db, EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone, "file beats default")
	assert.Equal(t, 4, cfg.CacheMB)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, settings, cfg.SettingsFile)

	t.Setenv("ROTIPANI_TIMEZONE", "Europe/Berlin")
	t.Setenv("ROTIPANI_CACHE_MB", "0")
	cfg, err = Load(Flags{Storage: db, EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone, "env beats file")
	assert.Equal(t, 0, cfg.CacheMB)

	cacheMB := 8
	cfg, err = Load(Flags{Storage: db, Timezone: "UTC", CacheMB: &cacheMB, EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Timezone, "flag beats env")
	assert.Equal(t, 8, cfg.CacheMB)
}

func TestLoadStorageFromEnv(t *testing.T) {
	clearEnv(t)
	db := filepath.Join(t.TempDir(), "from-env.db")
	t.Setenv("ROTIPANI_STORAGE", db)

	cfg, err := Load(Flags{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, db, cfg.Storage)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ROTIPANI_TIMEZONE=Asia/Tokyo\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("ROTIPANI_TIMEZONE") })

	cfg, err := Load(Flags{Storage: filepath.Join(dir, "rotipani.db"), EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
}

func TestLoadExplicitSettingsMustExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(Flags{
		Storage:      filepath.Join(t.TempDir(), "rotipani.db"),
		SettingsPath: filepath.Join(t.TempDir(), "nope.yaml"),
		EnvFile:      noEnvFile(t),
	})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{Storage: "/tmp/r.db", Timezone: "UTC", CacheMB: 1}},
		{name: "empty timezone means local", cfg: Config{Storage: "/tmp/r.db"}},
		{name: "missing storage", cfg: Config{Timezone: "UTC"}, wantErr: "required"},
		{name: "negative cache", cfg: Config{Storage: "/tmp/r.db", CacheMB: -1}, wantErr: "negative"},
		{name: "unknown timezone", cfg: Config{Storage: "/tmp/r.db", Timezone: "Mars/Olympus"}, wantErr: "timezone"},
		{name: "known log level", cfg: Config{Storage: "/tmp/r.db", LogLevel: "info"}},
		{name: "unknown log level", cfg: Config{Storage: "/tmp/r.db", LogLevel: "loud"}, wantErr: "one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), tt.wantErr)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", "rotipani", "rotipani.db"), ExpandHome("~/.config/rotipani/rotipani.db"))
	assert.Equal(t, "/abs/path.db", ExpandHome("/abs/path.db"))
	assert.Equal(t, "postgres://u@h/db", ExpandHome("postgres://u@h/db"))
}

func TestConfigDirForRemoteStorage(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Config{Storage: "postgres://u@h/db"}
	assert.Equal(t, filepath.Join(home, ".config", "rotipani"), cfg.ConfigDir())
}

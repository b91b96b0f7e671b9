package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withHome points the home directory at a temp dir and clears TASKMATE_*.
func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"TASKMATE_USER", "TASKMATE_DB", "TASKMATE_ADDR", "TASKMATE_IDENTITY_HEADER",
		"TASKMATE_WEBHOOK_SECRET", "TASKMATE_METRICS", "TASKMATE_LOG_LEVEL", "TASKMATE_LOG_USE_CASES",
	} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	home := withHome(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".taskmate", "taskmate.db"), cfg.DB.Path)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultIdentityHeader, cfg.Server.IdentityHeader)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, 25, cfg.Timer.StudyMinutes)
	assert.Equal(t, 5, cfg.Timer.BreakMinutes)
	assert.Empty(t, cfg.User)
}

func TestLoad_FileThenEnv(t *testing.T) {
	home := withHome(t)
	writeFile(t, filepath.Join(home, ".taskmate", "taskmate.toml"), `
user = "from-file"

[server]
addr = ":9000"
metrics = false

[timer]
study_minutes = 50
break_minutes = 10
`)
	t.Setenv("TASKMATE_ADDR", ":9100")
	t.Setenv("TASKMATE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.User)
	assert.Equal(t, ":9100", cfg.Server.Addr, "env wins over file")
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, 50, cfg.Timer.StudyMinutes)
	assert.Equal(t, 10, cfg.Timer.BreakMinutes)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	withHome(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	withHome(t)
	path := filepath.Join(t.TempDir(), "taskmate.toml")
	writeFile(t, path, "[server]\nport = 80\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoad_InvalidValues(t *testing.T) {
	withHome(t)
	path := filepath.Join(t.TempDir(), "taskmate.toml")
	writeFile(t, path, "[timer]\nstudy_minutes = 0\n")

	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("TASKMATE_METRICS", "maybe")
	_, err = Load("")
	assert.Error(t, err)
}

func TestApplyFlags_OnlyChangedFlags(t *testing.T) {
	withHome(t)
	t.Setenv("TASKMATE_USER", "env-user")
	cfg, err := Load("")
	require.NoError(t, err)
	original := cfg.DB.Path

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("user", "", "")
	fs.String("db", "", "")
	require.NoError(t, fs.Parse([]string{"--user", "flag-user"}))

	require.NoError(t, cfg.ApplyFlags(fs))
	assert.Equal(t, "flag-user", cfg.User)
	assert.Equal(t, original, cfg.DB.Path, "unset flags keep the loaded value")
}

func TestExample_Decodes(t *testing.T) {
	withHome(t)
	path := filepath.Join(t.TempDir(), "taskmate.toml")
	writeFile(t, path, Example)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runoshun/inbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader(overridePath, globalDir string, env map[string]string) *Loader {
	l := NewLoaderWithGlobalDir(overridePath, globalDir)
	l.getenv = func(k string) string { return env[k] }
	return l
}

func TestLoader_Load_Defaults(t *testing.T) {
	cfg, err := newTestLoader("", t.TempDir(), nil).Load()

	require.NoError(t, err)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_GlobalConfig(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[identity]
owner = "owner-1"

[remote]
dsn = "postgres://localhost/inbox"
connect_timeout = "3s"

[queue]
backend = "sqlite"
dir = "/tmp/q"
max_attempts = 5

[sync]
interval = "1m"
batch_size = 50

[log]
level = "debug"
file = "/tmp/inbox.log"
max_size_mb = 2
max_backups = 7
`)

	cfg, err := newTestLoader("", globalDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "owner-1", cfg.Identity.Owner)
	assert.Equal(t, "postgres://localhost/inbox", cfg.Remote.DSN)
	assert.Equal(t, 3*time.Second, cfg.Remote.ConnectTimeout)
	assert.Equal(t, domain.BackendSQLite, cfg.Queue.Backend)
	assert.Equal(t, "/tmp/q", cfg.Queue.Dir)
	assert.Equal(t, 5, cfg.Queue.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 50, cfg.Sync.BatchSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/inbox.log", cfg.Log.File)
	assert.Equal(t, 2, cfg.Log.MaxSizeMB)
	assert.Equal(t, 7, cfg.Log.MaxBackups)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_OverrideFileWins(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[identity]
owner = "global-owner"

[sync]
batch_size = 5
`)
	override := writeConfig(t, t.TempDir(), `
[identity]
owner = "override-owner"
`)

	cfg, err := newTestLoader(override, globalDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "override-owner", cfg.Identity.Owner)
	assert.Equal(t, 5, cfg.Sync.BatchSize, "unset keys keep the global value")
}

func TestLoader_Load_MissingOverrideFails(t *testing.T) {
	_, err := newTestLoader(filepath.Join(t.TempDir(), "nope.toml"), t.TempDir(), nil).Load()

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoader_Load_EnvWins(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[identity]
owner = "file-owner"
`)

	cfg, err := newTestLoader("", globalDir, map[string]string{
		domain.EnvOwner:     "env-owner",
		domain.EnvRemoteDSN: "postgres://env/inbox",
	}).Load()
	require.NoError(t, err)

	assert.Equal(t, "env-owner", cfg.Identity.Owner)
	assert.Equal(t, "postgres://env/inbox", cfg.Remote.DSN)
}

func TestLoader_Load_Warnings(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
unknown_top = 1

[identity]
owner = "x"
color = "blue"

[sync]
interval = "soon"
batch_size = 0

[extra]
key = "value"
`)

	cfg, err := newTestLoader("", globalDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"invalid value in [sync]: batch_size = 0",
		"invalid value in [sync]: interval = soon",
		"unknown key in [identity]: color",
		"unknown section: extra",
		"unknown section: unknown_top",
	}, cfg.Warnings)
	assert.Equal(t, domain.DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, domain.DefaultSyncBatchSize, cfg.Sync.BatchSize)
}

func TestLoader_Load_IntegerSecondsDuration(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `
[sync]
interval = 90
`)

	cfg, err := newTestLoader("", globalDir, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Sync.Interval)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `[identity`)

	_, err := newTestLoader("", globalDir, nil).Load()
	assert.Error(t, err)
}

func TestLoader_Load_RenderedTemplateRoundTrips(t *testing.T) {
	globalDir := t.TempDir()
	cfg := domain.NewDefaultConfig()
	cfg.Identity.Owner = "owner-1"
	writeConfig(t, globalDir, domain.RenderConfigTemplate(cfg))

	loaded, err := newTestLoader("", globalDir, nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "owner-1", loaded.Identity.Owner)
	assert.Empty(t, loaded.Warnings)
}

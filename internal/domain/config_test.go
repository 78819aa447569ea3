package domain

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultSyncInterval, cfg.Sync.Interval)
	assert.Equal(t, DefaultSyncBatchSize, cfg.Sync.BatchSize)
	assert.Equal(t, BackendFile, cfg.Queue.Backend)
	assert.Zero(t, cfg.Queue.MaxAttempts)
	assert.True(t, cfg.IdentityFromConfig().IsZero())
}

func TestRenderConfigTemplate_IsValidTOML(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Identity.Owner = "owner-123"

	content := RenderConfigTemplate(cfg)

	var raw map[string]any
	require.NoError(t, toml.Unmarshal([]byte(content), &raw))
	assert.Contains(t, content, `owner = "owner-123"`)
	assert.Contains(t, content, `level = "info"`)
	assert.Contains(t, content, `# interval = "30s"`)
}

func TestRenderConfigTemplate_NoOwner(t *testing.T) {
	content := RenderConfigTemplate(NewDefaultConfig())

	assert.Contains(t, content, `# owner = ""`)
	var raw map[string]any
	require.NoError(t, toml.Unmarshal([]byte(content), &raw))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/home/u/.config/inbox/config.toml", GlobalConfigPath("/home/u/.config"))
	assert.Equal(t, "/home/u/.local/share/inbox", DataDir("/home/u/.local/share"))
	assert.Equal(t, "/data/logs/inbox.log", DefaultLogPath("/data"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/inbox/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		configContent := "[log]\nlevel = \"debug\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte(configContent), 0o644))

		info := NewManagerWithGlobalDir(globalDir).GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, configContent, info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		globalDir := t.TempDir()

		info := NewManagerWithGlobalDir(globalDir).GetGlobalConfigInfo()

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})

	t.Run("returns empty info when dir is not set", func(t *testing.T) {
		info := NewManagerWithGlobalDir("").GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates config file with template", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "inbox")
		cfg := domain.NewDefaultConfig()
		cfg.Identity.Owner = "owner-1"

		path, err := NewManagerWithGlobalDir(globalDir).InitGlobalConfig(cfg)
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), path)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `owner = "owner-1"`)
	})

	t.Run("returns error if file already exists", func(t *testing.T) {
		globalDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(globalDir, domain.ConfigFileName), []byte("existing"), 0o644))

		_, err := NewManagerWithGlobalDir(globalDir).InitGlobalConfig(domain.NewDefaultConfig())
		assert.ErrorIs(t, err, domain.ErrConfigExists)

		content, err := os.ReadFile(filepath.Join(globalDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Equal(t, "existing", string(content))
	})

	t.Run("fails without a global dir", func(t *testing.T) {
		_, err := NewManagerWithGlobalDir("").InitGlobalConfig(domain.NewDefaultConfig())
		assert.Error(t, err)
	})
}

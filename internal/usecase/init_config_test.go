package usecase_test

import (
	"context"
	"testing"

	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/testutil"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_Execute(t *testing.T) {
	t.Run("creates global config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.GlobalConfigInfo.Path = "/home/test/.config/inbox/config.toml"
		cfg := domain.NewDefaultConfig()
		cfg.Identity.Owner = "owner-1"

		out, err := usecase.NewInitConfig(manager).Execute(context.Background(), usecase.InitConfigInput{Config: cfg})

		require.NoError(t, err)
		assert.Equal(t, "/home/test/.config/inbox/config.toml", out.Path)
		assert.Same(t, cfg, manager.InitConfig)
	})

	t.Run("defaults the config", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()

		_, err := usecase.NewInitConfig(manager).Execute(context.Background(), usecase.InitConfigInput{})

		require.NoError(t, err)
		assert.Equal(t, domain.NewDefaultConfig(), manager.InitConfig)
	})

	t.Run("returns error if config exists", func(t *testing.T) {
		manager := testutil.NewMockConfigManager()
		manager.InitErr = domain.ErrConfigExists

		_, err := usecase.NewInitConfig(manager).Execute(context.Background(), usecase.InitConfigInput{})

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}

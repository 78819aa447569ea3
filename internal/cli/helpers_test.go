package cli

import (
	"bytes"
	"testing"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/infra/notify"
	"github.com/runoshun/inbox/internal/testutil"
	"github.com/spf13/cobra"
)

type testEnv struct {
	container *app.Container
	queue     *testutil.MockQueueStore
	records   *testutil.MockRecordStore
	tags      *testutil.MockTagStore
	remote    *testutil.MockRemoteInitializer
	manager   *testutil.MockConfigManager
	loader    *testutil.MockConfigLoader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		queue:   testutil.NewMockQueueStore(),
		records: testutil.NewMockRecordStore(),
		tags:    testutil.NewMockTagStore(),
		remote:  &testutil.MockRemoteInitializer{},
		manager: testutil.NewMockConfigManager(),
		loader:  testutil.NewMockConfigLoader(),
	}
	env.container = app.NewWithDeps(app.Config{}, app.Deps{
		Queue:         env.queue,
		Records:       env.records,
		Tags:          env.tags,
		Remote:        env.remote,
		Identity:      domain.StaticIdentity{OwnerID: "owner-1"},
		Changes:       notify.NewBroadcaster(),
		ConfigLoader:  env.loader,
		ConfigManager: env.manager,
		AppConfig:     env.loader.Config,
	})
	return env
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

package cli

import (
	"testing"

	"github.com/runoshun/inbox/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_NoArgs_LaunchesCapture(t *testing.T) {
	originalFunc := launchCaptureFunc
	defer func() {
		launchCaptureFunc = originalFunc
	}()

	called := false
	launchCaptureFunc = func(c *app.Container) error {
		called = true
		return nil
	}

	root := NewRootCommand(newTestEnv(t).container, "test-version")
	_, _, err := execute(root)

	assert.NoError(t, err)
	assert.True(t, called, "launchCaptureFunc should be called when no arguments are provided")
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	originalFunc := launchCaptureFunc
	defer func() {
		launchCaptureFunc = originalFunc
	}()

	called := false
	launchCaptureFunc = func(c *app.Container) error {
		called = true
		return nil
	}

	root := NewRootCommand(nil, "test-version")
	stdout, _, err := execute(root, "--help")

	require.NoError(t, err)
	assert.False(t, called, "launchCaptureFunc should NOT be called when --help is provided")
	assert.Contains(t, stdout, "Capture Commands:")
	assert.Contains(t, stdout, "Outbox Commands:")
	assert.Contains(t, stdout, "Setup Commands:")
}

func TestNewRootCommand_NilContainer(t *testing.T) {
	root := NewRootCommand(nil, "test-version")

	_, _, err := execute(root, "queue", "count")

	assert.ErrorIs(t, err, errNoContainer)
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	env := newTestEnv(t)
	env.container.AppConfig.Warnings = []string{"unknown key in [queue]: colour"}

	root := NewRootCommand(env.container, "test-version")
	_, stderr, err := execute(root, "queue", "count")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: unknown key in [queue]: colour")
}

func TestNewRootCommand_AcceptsConfigFlag(t *testing.T) {
	root := NewRootCommand(newTestEnv(t).container, "test-version")

	stdout, _, err := execute(root, "--config", "/tmp/extra.toml", "queue", "count")

	require.NoError(t, err)
	assert.Equal(t, "0\n", stdout)
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")

	stdout, _, err := execute(root, "--version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3")
}

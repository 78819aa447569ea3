// Package cli provides the command-line interface for inbox.
package cli

import (
	"errors"
	"fmt"

	"github.com/runoshun/inbox/internal/app"
	"github.com/spf13/cobra"
)

// Command group IDs.
const (
	groupCapture = "capture"
	groupQueue   = "queue"
	groupSetup   = "setup"
)

// ConfigFlag is the persistent flag naming an extra config file.
// main reads it before the container is built.
const ConfigFlag = "config"

// launchCaptureFunc is a function variable for launching the capture TUI, allowing it to be mocked in tests.
var launchCaptureFunc = launchCapture

// errNoContainer is returned when a command runs without an initialized container.
var errNoContainer = errors.New("inbox is not initialized")

// NewRootCommand creates the root command for inbox.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "inbox",
		Short: "Capture notes and tasks, even offline",
		Long: `inbox captures ideas and tasks from one-line entries and stores them
in a remote Postgres database.

Every capture is durable: when the remote store cannot be reached the
capture goes to a local outbox and is replayed later by 'inbox sync'
or the 'inbox run' loop.

Quick entry tokens:
  #tag              add a tag
  @context          set the context (first one wins)
  !status           inbox, active, waiting, someday, done or archived
  type:idea|task    set the kind
  due:YYYY-MM-DD    set the due date
  energy:low|medium|high
  ~30m ~2h ~1h30m   set the duration
  title:...         explicit title; the other free words become the body

Run without arguments to open the capture prompt.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if c == nil {
				return errNoContainer
			}
			return launchCaptureFunc(c)
		},
	}

	root.PersistentFlags().StringVar(&configPath, ConfigFlag, "", "Extra config file merged over the global config")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupCapture, Title: "Capture Commands:"},
		&cobra.Group{ID: groupQueue, Title: "Outbox Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	addCmd := newAddCommand(c)
	addCmd.GroupID = groupCapture

	captureCmd := newCaptureCommand(c)
	captureCmd.GroupID = groupCapture

	syncCmd := newSyncCommand(c)
	syncCmd.GroupID = groupQueue

	runCmd := newRunCommand(c)
	runCmd.GroupID = groupQueue

	queueCmd := newQueueCommand(c)
	queueCmd.GroupID = groupQueue

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	remoteCmd := newRemoteCommand(c)
	remoteCmd.GroupID = groupSetup

	logsCmd := newLogsCommand(c)
	logsCmd.GroupID = groupQueue

	root.AddCommand(
		addCmd,
		captureCmd,
		syncCmd,
		runCmd,
		queueCmd,
		configCmd,
		remoteCmd,
		logsCmd,
	)

	return root
}

// requireContainer returns errNoContainer when c is nil.
func requireContainer(c *app.Container) error {
	if c == nil {
		return errNoContainer
	}
	return nil
}

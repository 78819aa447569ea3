package cli

import (
	"fmt"
	"io"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/spf13/cobra"
)

// newSyncCommand creates the sync command.
func newSyncCommand(c *app.Container) *cobra.Command {
	var maxItems int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Replay the outbox against the remote store",
		Long: `Replay queued captures against the remote store, oldest first.

Entries that are stored are removed from the outbox. Entries that fail
stay in place with their attempt counter raised; with [queue] max_attempts
set they move to the dead letters after that many failures.
Tag errors during replay are reported as warnings: the item itself is kept.

Examples:
  inbox sync
  inbox sync --max 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			uc, err := c.SyncQueueUseCase()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max") {
				maxItems = c.AppConfig.Sync.BatchSize
			}

			out, err := uc.Execute(cmd.Context(), usecase.SyncQueueInput{MaxItems: maxItems})
			if err != nil {
				return err
			}
			printSyncResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxItems, "max", 0, "Max entries to replay (default: [sync] batch_size)")

	return cmd
}

func printSyncResult(w, errW io.Writer, out *usecase.SyncQueueOutput) {
	for _, warning := range out.Warnings {
		_, _ = fmt.Fprintf(errW, "Warning: %s\n", warning)
	}
	if out.Skipped != "" {
		_, _ = fmt.Fprintf(w, "Nothing synced: %s\n", out.Skipped)
		return
	}
	_, _ = fmt.Fprintf(w, "Attempted %d, succeeded %d, remaining %d\n", out.Attempted, out.Succeeded, out.Remaining)
	for _, id := range out.DeadLettered {
		_, _ = fmt.Fprintf(w, "%s %s\n", styleRejected.Render("Dead-lettered"), id)
	}
}

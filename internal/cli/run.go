package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/spf13/cobra"
)

// newRunCommand creates the run command.
func newRunCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the sync loop in the foreground",
		Long: `Run the sync loop in the foreground until interrupted.

The loop syncs once on start, then every [sync] interval. It also syncs
when a capture is added to the outbox by another inbox process, and
when it receives SIGUSR1:

  kill -USR1 <pid>

SIGINT or SIGTERM stops the loop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			loop, err := c.SyncLoop(func(out *usecase.SyncQueueOutput, err error) {
				logSyncRun(c, out, err)
			})
			if err != nil {
				return err
			}

			stopWatch, err := c.WatchQueue()
			if err != nil {
				return err
			}
			defer func() { _ = stopWatch() }()

			if err := loop.Start(ctx); err != nil {
				return err
			}
			defer loop.Stop()

			go triggerOnGrowth(ctx, c, loop)

			usr1 := make(chan os.Signal, 1)
			signal.Notify(usr1, syscall.SIGUSR1)
			defer signal.Stop(usr1)

			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Sync loop running (pid %d). Press Ctrl+C to stop.\n", os.Getpid())
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-usr1:
					c.Diag.Info("sync requested by signal")
					loop.Trigger()
				}
			}
		},
	}
}

// triggerOnGrowth requests a sync when the outbox gains entries.
// Shrinking or attempt updates do not trigger, so failing runs cannot feed
// themselves.
func triggerOnGrowth(ctx context.Context, c *app.Container, loop *usecase.SyncLoop) {
	changes, unsubscribe := c.Changes.Subscribe()
	defer unsubscribe()

	last, _ := c.Queue.Count(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-changes:
			n, err := c.Queue.Count(ctx)
			if err != nil {
				continue
			}
			if n > last {
				loop.Trigger()
			}
			last = n
		}
	}
}

func logSyncRun(c *app.Container, out *usecase.SyncQueueOutput, err error) {
	switch {
	case err != nil:
		c.Diag.Error("sync failed", "error", err)
	case out.Skipped != "":
		c.Diag.Debug("sync skipped", "reason", out.Skipped)
	default:
		c.Diag.Info("sync",
			"attempted", out.Attempted,
			"succeeded", out.Succeeded,
			"remaining", out.Remaining,
			"dead_lettered", len(out.DeadLettered))
		for _, w := range out.Warnings {
			c.Diag.Warn("sync warning", "detail", w)
		}
	}
}

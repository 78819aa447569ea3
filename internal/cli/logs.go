package cli

import (
	"fmt"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/spf13/cobra"
)

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Category string
		Lines    int
	}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the capture and sync log",
		Long: `Show the log written by captures and sync runs.

Categories: capture, sync, write, outbox, queue, notify.

Examples:
  # Last 50 lines
  inbox logs -n 50

  # Only sync runs
  inbox logs --category sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), usecase.ShowLogsInput{
				Category: opts.Category,
				Lines:    opts.Lines,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out.Content)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 0, "Number of lines to show from the end (0 = all)")
	cmd.Flags().StringVar(&opts.Category, "category", "", "Only show lines of this category")

	return cmd
}

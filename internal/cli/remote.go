package cli

import (
	"fmt"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/spf13/cobra"
)

// newRemoteCommand creates the remote command.
func newRemoteCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the remote store",
	}
	cmd.AddCommand(newRemoteInitCommand(c))
	return cmd
}

func newRemoteInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the remote tables",
		Long: `Check that the remote Postgres store is reachable and create the
items, tags and item_tags tables if they do not exist. Safe to repeat.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			uc, err := c.InitRemoteUseCase()
			if err != nil {
				return err
			}
			if _, err := uc.Execute(cmd.Context(), usecase.InitRemoteInput{}); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Remote store ready")
			return nil
		},
	}
}

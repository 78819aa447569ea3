package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/tui/capture"
	"github.com/spf13/cobra"
)

// newCaptureCommand creates the capture command.
func newCaptureCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "capture",
		Aliases: []string{"tui"},
		Short:   "Open the capture prompt",
		Long: `Open an interactive prompt that captures one line per Enter.

The badge next to the title shows how many captures wait in the outbox.
It follows changes made by other inbox processes too.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			return launchCaptureFunc(c)
		},
	}
}

// launchCapture runs the capture prompt until the user quits.
func launchCapture(c *app.Container) error {
	stopWatch, err := c.WatchQueue()
	if err != nil {
		c.Diag.Warn("queue watch unavailable", "error", err)
	} else {
		defer func() { _ = stopWatch() }()
	}

	changes, unsubscribe := c.Changes.Subscribe()
	defer unsubscribe()

	model := capture.New(c.CaptureItemUseCase(), c.Queue.Count, changes)
	_, err = tea.NewProgram(model).Run()
	return err
}

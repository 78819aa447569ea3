package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats of queue listings.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// newQueueCommand creates the queue command.
func newQueueCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the outbox",
		Long: `Inspect and manage the outbox of captures waiting for the remote store.

Dead letters are entries that failed [queue] max_attempts times. They are
kept aside until requeued or purged.`,
	}

	cmd.AddCommand(
		newQueueListCommand(c, false),
		newQueueListCommand(c, true),
		newQueueCountCommand(c),
		newQueueRequeueCommand(c),
		newQueuePurgeCommand(c),
	)

	return cmd
}

func newQueueListCommand(c *app.Container, dead bool) *cobra.Command {
	var format string

	use, short := "list", "List pending entries, oldest first"
	if dead {
		use, short = "dead", "List dead letters"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			out, err := c.ListQueueUseCase().Execute(cmd.Context(), usecase.ListQueueInput{Dead: dead})
			if err != nil {
				return err
			}
			return printEntries(cmd.OutOrStdout(), out.Entries, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "Output format: table, json or yaml")

	return cmd
}

func newQueueCountCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of pending entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			out, err := c.ListQueueUseCase().Execute(cmd.Context(), usecase.ListQueueInput{})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), len(out.Entries))
			return nil
		},
	}
}

func newQueueRequeueCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "requeue <id>",
		Short: "Move a dead letter back to the outbox",
		Long: `Move a dead letter back to the tail of the outbox with its attempt
counter reset, so the next sync tries it again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			out, err := c.RequeueEntryUseCase().Execute(cmd.Context(), usecase.RequeueEntryInput{ID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Requeued %s %q\n", out.Entry.ID, out.Entry.Payload.Title)
			return nil
		},
	}
}

func newQueuePurgeCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <id>",
		Short: "Delete a dead letter for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}
			if _, err := c.PurgeEntryUseCase().Execute(cmd.Context(), usecase.PurgeEntryInput{ID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Purged %s\n", args[0])
			return nil
		},
	}
}

// entryView is the json/yaml shape of a listed queue entry.
type entryView struct {
	CreatedAt time.Time            `json:"createdAt" yaml:"createdAt"`
	ID        string               `json:"id" yaml:"id"`
	LastError string               `json:"lastError,omitempty" yaml:"lastError,omitempty"`
	Payload   domain.CaptureRecord `json:"payload" yaml:"payload"`
	Attempts  int                  `json:"attempts" yaml:"attempts"`
}

func printEntries(w io.Writer, entries []domain.QueueEntry, format string) error {
	switch format {
	case formatTable, "":
		printEntryTable(w, entries)
		return nil
	case formatJSON, formatYAML:
		views := make([]entryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, entryView{
				CreatedAt: e.CreatedAt.UTC(),
				ID:        e.ID,
				LastError: e.LastError,
				Payload:   e.Payload,
				Attempts:  e.Attempts,
			})
		}
		if format == formatJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid --format: %s (expected table, json, yaml)", format)
	}
}

func printEntryTable(w io.Writer, entries []domain.QueueEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tCREATED\tATTEMPTS\tKIND\tTAGS\tTITLE\tLAST ERROR")
	for _, e := range entries {
		tagsStr := "-"
		if len(e.Payload.Tags) > 0 {
			tagsStr = "[" + strings.Join(e.Payload.Tags, ",") + "]"
		}
		lastErr := "-"
		if e.LastError != "" {
			lastErr = truncate(e.LastError, 60)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			e.ID,
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Attempts,
			e.Payload.Kind,
			tagsStr,
			e.Payload.Title,
			lastErr,
		)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

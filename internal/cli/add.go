package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/runoshun/inbox/internal/app"
	"github.com/runoshun/inbox/internal/domain"
	"github.com/runoshun/inbox/internal/usecase"
	"github.com/spf13/cobra"
)

// formFlags are the add flags that switch from quick entry to a form record.
var formFlags = []string{"title", "body", "edit", "tag", "kind", "status", "context", "energy", "minutes", "due"}

// newAddCommand creates the add command.
func newAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title   string
		Body    string
		Kind    string
		Status  string
		Context string
		Energy  string
		Due     string
		Tags    []string
		Minutes int
		Edit    bool
	}

	cmd := &cobra.Command{
		Use:   "add [line...]",
		Short: "Capture an idea or task",
		Long: `Capture an idea or task.

The arguments are joined into one quick-entry line and parsed for tokens
(#tag, @context, !status, type:, due:, energy:, ~duration, title:).
With any form flag the line is not parsed: the flags build the record
and the arguments, if any, become the title.

The capture is written to the remote store right away. When that fails
for a transient reason (offline, no remote configured, not signed in)
it is queued in the outbox and synced later. Invalid captures are
rejected and not stored.

Examples:
  # Quick entry
  inbox add Call the plumber #home @phone ~10m due:2026-11-02

  # Task with an explicit title and a body
  inbox add type:task title:Renew passport energy:high photos are in the drawer

  # Form
  inbox add --title "Plan trip" --kind task --tag travel --tag family --due 2026-12-01

  # Write the body in $EDITOR
  inbox add --edit Draft the talk outline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireContainer(c); err != nil {
				return err
			}

			var in usecase.CaptureItemInput
			if anyChanged(cmd, formFlags...) {
				title := opts.Title
				if title == "" {
					title = strings.Join(args, " ")
				}
				body := opts.Body
				if opts.Edit {
					edited, err := editBody(body)
					if err != nil {
						return err
					}
					body = edited
				}
				rec, err := buildFormRecord(title, body, opts.Kind, opts.Status, opts.Context, opts.Energy, opts.Due, opts.Tags)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("minutes") {
					minutes := opts.Minutes
					rec.DurationMinutes = &minutes
				}
				in.Record = &rec
			} else {
				in.Line = strings.Join(args, " ")
				if strings.TrimSpace(in.Line) == "" {
					return errors.New("nothing to capture: give a line or --title")
				}
			}

			out, err := c.CaptureItemUseCase().Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printCaptureResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), out)
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "Title (form entry)")
	cmd.Flags().StringVar(&opts.Body, "body", "", "Body text")
	cmd.Flags().BoolVarP(&opts.Edit, "edit", "e", false, "Write the body in $EDITOR")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "Kind: idea or task")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Status: inbox, active, waiting, someday, done, archived")
	cmd.Flags().StringVar(&opts.Context, "context", "", "Context, e.g. home or phone")
	cmd.Flags().StringVar(&opts.Energy, "energy", "", "Energy: low, medium or high")
	cmd.Flags().IntVar(&opts.Minutes, "minutes", 0, "Estimated duration in minutes")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// buildFormRecord turns form values into a record. Unknown enum values are
// passed through so validation reports them as a rejection.
func buildFormRecord(title, body, kind, status, context, energy, due string, tags []string) (domain.CaptureRecord, error) {
	rec := domain.CaptureRecord{
		Title:   title,
		Body:    body,
		Context: strings.TrimPrefix(context, "@"),
		Tags:    tags,
	}
	if kind != "" {
		if k, ok := domain.ParseKind(kind); ok {
			rec.Kind = k
		} else {
			rec.Kind = domain.Kind(kind)
		}
	}
	if status != "" {
		if s, ok := domain.ParseStatus(status); ok {
			rec.Status = s
		} else {
			rec.Status = domain.Status(status)
		}
	}
	if energy != "" {
		if e, ok := domain.ParseEnergy(energy); ok {
			rec.Energy = e
		} else {
			rec.Energy = domain.Energy(energy)
		}
	}
	if due != "" {
		d, err := domain.ParseDate(due)
		if err != nil {
			return domain.CaptureRecord{}, fmt.Errorf("--due: %w", err)
		}
		rec.DueAt = &d
	}
	return rec, nil
}

// printCaptureResult reports a capture. A rejection is returned as an error.
func printCaptureResult(w, errW io.Writer, out *usecase.CaptureItemOutput) error {
	for _, warning := range out.Warnings {
		_, _ = fmt.Fprintf(errW, "Warning: %s\n", warning)
	}

	switch out.Result {
	case usecase.ResultSaved:
		_, _ = fmt.Fprintf(w, "%s %q %s\n", styleSaved.Render("Saved"), out.Record.Title, styleMuted.Render(out.RemoteID))
	case usecase.ResultQueued:
		_, _ = fmt.Fprintf(w, "%s %q: %s, will sync\n", styleQueued.Render("Queued"), out.Record.Title, out.Reason)
	default:
		_, _ = fmt.Fprintf(errW, "%s %s\n", styleRejected.Render("Rejected"), out.Reason)
		return fmt.Errorf("capture rejected: %s", out.Reason)
	}
	return nil
}

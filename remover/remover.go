package remover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	slogcontext "github.com/veqryn/slog-context"
	"github.com/viant/afs"
	"github.com/viant/buildprune/analyzer"
)

// UpToDate is reported when no artifact is outdated
const UpToDate = "All artifact files are up-to-date."

// Remover deletes outdated artifacts, narrating each removal
type Remover struct {
	fs  afs.Service
	out io.Writer
}

// New creates a remover writing progress lines to out
func New(fs afs.Service, out io.Writer) *Remover {
	if fs == nil {
		fs = afs.New()
	}
	return &Remover{fs: fs, out: out}
}

// Remove deletes every planned artifact in plan order; the first failure aborts the remaining removals
func (r *Remover) Remove(ctx context.Context, plan *analyzer.Plan) error {
	if plan.IsEmpty() {
		_, err := fmt.Fprintln(r.out, UpToDate)
		return err
	}
	logger := slogcontext.FromCtx(ctx)
	for _, entry := range plan.Entries {
		if _, err := fmt.Fprintln(r.out, Describe(entry)); err != nil {
			return err
		}
		exists, err := r.fs.Exists(ctx, entry.Path)
		if err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Path, err)
		}
		if !exists {
			return fmt.Errorf("failed to remove %s: %w", entry.Path, os.ErrNotExist)
		}
		if err = r.fs.Delete(ctx, entry.Path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Path, err)
		}
		logger.Debug("removed", slog.String("unit", entry.Unit.String()), slog.String("path", entry.Path))
	}
	return nil
}

// Render writes the plan as a table without touching the filesystem
func (r *Remover) Render(plan *analyzer.Plan) error {
	if plan.IsEmpty() {
		_, err := fmt.Fprintln(r.out, UpToDate)
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.AppendHeader(table.Row{"Unit", "Reason", "Via", "Path"})
	for _, entry := range plan.Entries {
		t.AppendRow(table.Row{entry.Unit, entry.Reason, entry.Via, entry.Path})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return nil
}

// Describe returns the progress line of an entry
func Describe(entry *analyzer.Entry) string {
	switch entry.Reason {
	case analyzer.ReasonOrphaned:
		return fmt.Sprintf("Removing '%s' as its source file doesn't exist anymore...", entry.Path)
	case analyzer.ReasonStale:
		return fmt.Sprintf("Removing '%s' as its source file is newer...", entry.Path)
	default:
		return fmt.Sprintf("Removing '%s' as it imports '%s'...", entry.Path, entry.Via)
	}
}

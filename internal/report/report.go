// Package report prints operator-facing summaries of sync and provisioning runs.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"story_sync/internal/domain"
	"story_sync/internal/provision"
	"story_sync/internal/webflow"
)

type Printer struct {
	w    io.Writer
	ok   *color.Color
	warn *color.Color
	fail *color.Color
	head *color.Color
}

func New(w io.Writer) *Printer {
	return &Printer{
		w:    w,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
		head: color.New(color.Bold),
	}
}

func (p *Printer) SyncSummary(stats *domain.SyncStats) {
	p.head.Fprintln(p.w, "Sync complete")
	fmt.Fprintf(p.w, "  run:       %s\n", stats.RunID)
	fmt.Fprintf(p.w, "  fetched:   %d\n", stats.Fetched)
	fmt.Fprintf(p.w, "  skipped:   %d (already linked)\n", stats.Skipped)
	fmt.Fprintf(p.w, "  unsynced:  %d\n", stats.Unsynced)
	p.ok.Fprintf(p.w, "  synced:    %d (%d created, %d updated)\n", stats.Synced, stats.Created, stats.Updated)
	if stats.Failed > 0 {
		p.fail.Fprintf(p.w, "  failed:    %d\n", stats.Failed)
	} else {
		fmt.Fprintln(p.w, "  failed:    0")
	}
	if stats.Published > 0 || stats.PublishErrors > 0 {
		fmt.Fprintf(p.w, "  events:    %d published, %d failed\n", stats.Published, stats.PublishErrors)
	}
	fmt.Fprintf(p.w, "  duration:  %s\n", stats.Duration.Round(time.Millisecond))

	for _, res := range stats.Results {
		if res.OK() {
			p.ok.Fprint(p.w, "  ✓ ")
			fmt.Fprintf(p.w, "%d %s %s -> %s\n", res.StoryID, res.Action, res.Slug, res.ItemID)
			continue
		}
		p.fail.Fprint(p.w, "  ✗ ")
		fmt.Fprintf(p.w, "%d %s: %v\n", res.StoryID, res.Action, res.Err)
	}
}

func (p *Printer) Columns(r *provision.ColumnReport) {
	p.head.Fprintf(p.w, "Table %s (id %d) in workspace %s (id %d)\n",
		r.Table.TableName, r.Table.TableID, r.Table.WorkspaceName, r.Table.WorkspaceID)
	fmt.Fprintf(p.w, "  existing columns: %s\n", strings.Join(r.Existing, ", "))

	for _, name := range r.Skipped {
		p.warn.Fprint(p.w, "  - ")
		fmt.Fprintf(p.w, "%s already exists\n", name)
	}
	for _, col := range r.Added {
		p.ok.Fprint(p.w, "  + ")
		fmt.Fprintf(p.w, "%s (%s)\n", col.Name, col.Type)
	}
	p.failures(r.Failed)

	fmt.Fprintf(p.w, "Added %d, skipped %d, failed %d\n", len(r.Added), len(r.Skipped), len(r.Failed))
}

func (p *Printer) Triggers(r *provision.TriggerReport) {
	p.head.Fprintf(p.w, "Triggers on %s (id %d)\n", r.Table.TableName, r.Table.TableID)

	for _, name := range r.Skipped {
		p.warn.Fprint(p.w, "  - ")
		fmt.Fprintf(p.w, "%s already exists\n", name)
	}
	for _, name := range r.Created {
		p.ok.Fprint(p.w, "  + ")
		fmt.Fprintf(p.w, "%s\n", name)
	}
	p.failures(r.Failed)

	fmt.Fprintf(p.w, "Created %d, skipped %d, failed %d\n", len(r.Created), len(r.Skipped), len(r.Failed))
}

func (p *Printer) Items(views []webflow.StoryView, total int) {
	p.head.Fprintf(p.w, "%d live of %d items\n", len(views), total)
	for _, v := range views {
		fmt.Fprintf(p.w, "  %-40s %s", v.Slug, v.Title)
		if v.Category != "" {
			p.warn.Fprintf(p.w, " [%s]", v.Category)
		}
		if v.XanoID != "" {
			fmt.Fprintf(p.w, " (story %s)", v.XanoID)
		}
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) Runs(runs []domain.SyncRun) {
	if len(runs) == 0 {
		fmt.Fprintln(p.w, "No sync runs recorded")
		return
	}
	p.head.Fprintln(p.w, "Recent sync runs")
	for _, r := range runs {
		line := fmt.Sprintf("  %s  %s  fetched=%d skipped=%d synced=%d failed=%d\n",
			r.StartedAt.Format(time.RFC3339), r.ID, r.Fetched, r.Skipped, r.Synced, r.Failed)
		if r.Failed > 0 {
			p.fail.Fprint(p.w, line)
		} else {
			fmt.Fprint(p.w, line)
		}
	}
}

func (p *Printer) RunResults(runID string, results []domain.RunResult) {
	p.head.Fprintf(p.w, "Run %s: %d stories\n", runID, len(results))
	for _, r := range results {
		if r.Error != nil {
			p.fail.Fprint(p.w, "  ✗ ")
			fmt.Fprintf(p.w, "%d %s %s: %s\n", r.StoryID, r.Action, r.Slug, *r.Error)
			continue
		}
		itemID := ""
		if r.ItemID != nil {
			itemID = *r.ItemID
		}
		p.ok.Fprint(p.w, "  ✓ ")
		fmt.Fprintf(p.w, "%d %s %s -> %s\n", r.StoryID, r.Action, r.Slug, itemID)
	}
}

func (p *Printer) failures(failed []provision.Failure) {
	for _, f := range failed {
		p.fail.Fprint(p.w, "  ! ")
		fmt.Fprintf(p.w, "%s: %v\n", f.Name, f.Err)
	}
}

package provision

import (
	"context"
	"fmt"

	"story_sync/internal/xano"
)

// StoryColumns lists the columns the stories table must have.
func StoryColumns() []xano.ColumnSpec {
	col := func(name, typ, desc string, def any) xano.ColumnSpec {
		return xano.ColumnSpec{Name: name, Type: typ, Description: desc, Nullable: true, Default: def}
	}
	return []xano.ColumnSpec{
		col("author_photo", "text", "Author profile photo URL", nil),
		col("author_name", "text", "Author display name", nil),
		col("author_bio", "text", "Author biography", nil),
		col("category", "text", "Story category (opinion, news, feature, etc.)", nil),
		col("status", "text", "Story status (draft, published)", "draft"),
		col("featured", "bool", "Is story featured", false),
		col("document_url", "text", "Document URL (Word, PPT, PDF)", nil),
		col("webflow_item_id", "text", "Webflow CMS item ID", nil),
		col("webflow_synced_at", "timestamp", "Last Webflow sync timestamp", nil),
		col("published_date", "timestamp", "Story publish date", nil),
		col("read_time", "integer", "Estimated read time in minutes", nil),
		col("view_count", "integer", "View count", 0),
		col("updated_at", "timestamp", "Last update timestamp", nil),
		col("uploadcare_uuid", "text", "Uploadcare file UUID", nil),
	}
}

// ColumnReport summarizes a column provisioning pass.
type ColumnReport struct {
	Table    TableRef
	Existing []string
	Added    []xano.ColumnSpec
	Skipped  []string
	Failed   []Failure
}

// AddColumns adds every desired column that the table schema lacks.
func (p *Provisioner) AddColumns(ctx context.Context, desired []xano.ColumnSpec) (*ColumnReport, error) {
	ref, err := p.LocateTable(ctx)
	if err != nil {
		return nil, err
	}

	schema, err := p.api.TableSchema(ctx, ref.WorkspaceID, ref.TableID)
	if err != nil {
		return nil, err
	}

	report := &ColumnReport{Table: *ref}
	existing := make(map[string]struct{}, len(schema))
	for _, c := range schema {
		existing[c.Name] = struct{}{}
		report.Existing = append(report.Existing, c.Name)
	}

	for _, col := range desired {
		if _, ok := existing[col.Name]; ok {
			report.Skipped = append(report.Skipped, col.Name)
			continue
		}

		if err := p.api.AddColumn(ctx, ref.WorkspaceID, ref.TableID, col); err != nil {
			p.logger.Warn("add column failed", "column", col.Name, "error", err)
			report.Failed = append(report.Failed, Failure{Name: col.Name, Err: err})
			continue
		}

		existing[col.Name] = struct{}{}
		report.Added = append(report.Added, col)
	}

	p.logger.Info("columns provisioned",
		"table", ref.TableName,
		"added", len(report.Added),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
	)

	return report, nil
}

// Err returns an error when any column failed to be added.
func (r *ColumnReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d column(s) failed: %w", len(r.Failed), r.Failed[0].Err)
}

package provision

import (
	"context"
	"fmt"

	"story_sync/internal/xano"
)

// Trigger names registered on the stories table.
const (
	InsertTriggerName = "Webflow Sync - Insert"
	UpdateTriggerName = "Webflow Sync - Update"
)

// StoryTriggers returns the after-insert and after-update triggers running
// the given script.
func StoryTriggers(code string) []xano.TriggerSpec {
	return []xano.TriggerSpec{
		{Name: InsertTriggerName, Type: xano.TriggerAfterInsert, Enabled: true, Code: code},
		{Name: UpdateTriggerName, Type: xano.TriggerAfterUpdate, Enabled: true, Code: code},
	}
}

// TriggerReport summarizes a trigger deployment.
type TriggerReport struct {
	Table   TableRef
	Created []string
	Skipped []string
	Failed  []Failure
}

// DeployTriggers creates each trigger unless one with the same name exists.
func (p *Provisioner) DeployTriggers(ctx context.Context, specs []xano.TriggerSpec) (*TriggerReport, error) {
	ref, err := p.LocateTable(ctx)
	if err != nil {
		return nil, err
	}

	current, err := p.api.Triggers(ctx, ref.WorkspaceID, ref.TableID)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(current))
	for _, t := range current {
		existing[t.Name] = struct{}{}
	}
	p.logger.Info("existing triggers", "count", len(current))

	report := &TriggerReport{Table: *ref}
	for _, spec := range specs {
		if _, ok := existing[spec.Name]; ok {
			report.Skipped = append(report.Skipped, spec.Name)
			continue
		}

		if err := p.api.CreateTrigger(ctx, ref.WorkspaceID, ref.TableID, spec); err != nil {
			p.logger.Warn("create trigger failed", "trigger", spec.Name, "error", err)
			report.Failed = append(report.Failed, Failure{Name: spec.Name, Err: err})
			continue
		}

		existing[spec.Name] = struct{}{}
		report.Created = append(report.Created, spec.Name)
	}

	return report, nil
}

// Err returns an error when any trigger failed to be created.
func (r *TriggerReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d trigger(s) failed: %w", len(r.Failed), r.Failed[0].Err)
}

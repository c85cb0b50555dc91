package sync

import (
	"time"

	"autosync/core/database"
	"autosync/core/reconcile"
)

// RunReport describes one sync run end to end. It is archived as JSON and
// summarized in the journal.
type RunReport struct {
	RunID      string    `json:"run_id"`
	Profile    string    `json:"profile"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Summary counts what the plan found.
	Summary reconcile.PlanSummary `json:"summary"`
	// Applied counts what was written, sweep included.
	Applied reconcile.ApplyResult `json:"applied"`
	// Actions lists the planned creates and updates.
	Actions []reconcile.Action `json:"actions"`
	// Failures lists source records that could not be normalized.
	Failures []reconcile.Failure `json:"failures"`
	// Duplicates and Orphans list what the sweep found.
	Duplicates []reconcile.TargetRef `json:"duplicates"`
	Orphans    []reconcile.TargetRef `json:"orphans"`

	ArchiveKey string `json:"archive_key,omitempty"`
}

// Duration returns the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Record converts the report into a journal row.
func (r *RunReport) Record() *database.RunRecord {
	return &database.RunRecord{
		RunID:           r.RunID,
		Profile:         r.Profile,
		Status:          r.Status,
		Error:           r.Error,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		Sources:         r.Summary.Sources,
		Targets:         r.Summary.Targets,
		Created:         r.Applied.Created,
		Updated:         r.Applied.Updated,
		Deleted:         r.Applied.Deleted,
		SkippedExisting: r.Applied.SkippedExisting,
		Failed:          r.Applied.Failed + r.Summary.Failures,
	}
}

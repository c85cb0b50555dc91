package reconcile

import (
	"go.uber.org/zap"
)

// SourceItem is an authoritative record (e.g. a vehicle from the feed).
// Adapters define the concrete type.
type SourceItem any

// TargetItem is a record in the store being reconciled (e.g. a catalog product).
// Adapters define the concrete type.
type TargetItem any

// Payload is the normalized target shape derived from a SourceItem.
// Adapters define the concrete type.
type Payload any

// ReconcileResult represents the reconciliation output for a single key.
type ReconcileResult struct {
	// Key is the join key shared by source and target (the SKU).
	Key string `json:"key"`

	// Name is the display name derived from the source, when present.
	Name string `json:"name"`

	// SourcePresent indicates whether the key exists in the source.
	SourcePresent bool `json:"source_present"`

	// TargetIDs lists every target record carrying the key, in fetch order.
	TargetIDs []string `json:"target_ids"`

	// Mismatch contains descriptions of field mismatches between the
	// normalized source and the first target, e.g. "price: src=10.00 dst=12.00".
	Mismatch []string `json:"mismatch"`

	// Error is set when the source record could not be normalized.
	Error string `json:"error,omitempty"`
}

// TargetPresent reports whether at least one target carries the key.
func (r ReconcileResult) TargetPresent() bool {
	return len(r.TargetIDs) > 0
}

// Spec bundles the adapter with execution settings.
type Spec struct {
	// Adapter provides model-specific loading, normalization and comparison.
	Adapter Adapter

	// BatchSize is the number of records per create/update batch. Defaults to 20.
	BatchSize int

	// UpdateConcurrency bounds concurrently dispatched update batches. Defaults to 4.
	UpdateConcurrency int

	// Logger receives per-record and per-batch outcomes. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultBatchSize is the catalog's bulk-operation limit.
const DefaultBatchSize = 20

// DefaultUpdateConcurrency is the default number of in-flight update batches.
const DefaultUpdateConcurrency = 4

func (s *Spec) batchSize() int {
	if s.BatchSize <= 0 {
		return DefaultBatchSize
	}
	return s.BatchSize
}

func (s *Spec) updateConcurrency() int {
	if s.UpdateConcurrency <= 0 {
		return DefaultUpdateConcurrency
	}
	return s.UpdateConcurrency
}

func (s *Spec) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCreate creates a target from a source record with no match.
	ActionCreate ActionType = "create"
	// ActionUpdate rewrites a matched target whose fields disagree with the source.
	ActionUpdate ActionType = "update"
	// ActionDeleteDuplicate removes an extra target sharing a key with an earlier one.
	ActionDeleteDuplicate ActionType = "delete_duplicate"
	// ActionDeleteOrphan removes a target whose key is absent from the source.
	ActionDeleteOrphan ActionType = "delete_orphan"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the join key.
	Key string `json:"key"`

	// TargetID is the target identifier for update and delete actions.
	TargetID string `json:"target_id,omitempty"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Payload carries the normalized source for create and update actions.
	Payload Payload `json:"-"`
}

// Failure records a source record that could not be planned.
type Failure struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	// Results contains per-key reconciliation data, sorted by key.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned mutations: creates and updates in source order,
	// then duplicate and orphan deletions in target fetch order.
	Actions []Action `json:"actions"`

	// Failures lists source records skipped because they could not be normalized.
	Failures []Failure `json:"failures"`

	// SourceKeys is the set of keys present in the source.
	SourceKeys map[string]struct{} `json:"-"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// ActionsOf returns the planned actions of the given type, in plan order.
func (p *ReconcilePlan) ActionsOf(t ActionType) []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// Sources is the number of source records loaded.
	Sources int `json:"sources"`

	// Targets is the number of target records loaded.
	Targets int `json:"targets"`

	// SourceDuplicates counts source records skipped because their key repeated.
	SourceDuplicates int `json:"source_duplicates"`

	// Unchanged counts matched records already equivalent to the source.
	Unchanged int `json:"unchanged"`

	// Creates counts planned create actions.
	Creates int `json:"creates"`

	// Updates counts planned update actions.
	Updates int `json:"updates"`

	// DuplicateDeletes counts planned duplicate deletions.
	DuplicateDeletes int `json:"duplicate_deletes"`

	// OrphanDeletes counts planned orphan deletions.
	OrphanDeletes int `json:"orphan_deletes"`

	// Failures counts source records that could not be normalized.
	Failures int `json:"failures"`
}

// ReconcileOptions controls which actions are planned and executed.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoCreate plans creation of unmatched source records.
	DoCreate bool

	// DoUpdate plans updates of mismatched targets.
	DoUpdate bool

	// DoPurgeDuplicates plans deletion of targets repeating an earlier key.
	DoPurgeDuplicates bool

	// DoPurgeOrphans plans deletion of targets absent from the source.
	DoPurgeOrphans bool

	// AllowEmptySource permits orphan purge when the source is empty.
	// Without it an empty feed never wipes the target store.
	AllowEmptySource bool

	// VerifyBeforeCreate re-checks each create candidate, one at a time,
	// right before batching and drops those that appeared meanwhile.
	VerifyBeforeCreate bool
}

// DefaultOptions plans and applies everything with pre-create verification.
func DefaultOptions() ReconcileOptions {
	return ReconcileOptions{
		DoCreate:           true,
		DoUpdate:           true,
		DoPurgeDuplicates:  true,
		DoPurgeOrphans:     true,
		VerifyBeforeCreate: true,
	}
}

// ApplyResult counts what ApplyPlan or Sweep did.
type ApplyResult struct {
	// Created counts targets created.
	Created int `json:"created"`

	// Updated counts targets updated.
	Updated int `json:"updated"`

	// Deleted counts targets deleted.
	Deleted int `json:"deleted"`

	// SkippedExisting counts create candidates dropped by pre-create verification.
	SkippedExisting int `json:"skipped_existing"`

	// Failed counts records whose mutation failed (per item or per batch).
	Failed int `json:"failed"`

	// Batches counts batch calls issued.
	Batches int `json:"batches"`

	// Accepted lists the creates and updates the store accepted.
	Accepted []Action `json:"-"`

	// Removed lists the deletions that succeeded.
	Removed []Action `json:"-"`
}

// Add accumulates another result into r.
func (r *ApplyResult) Add(o ApplyResult) {
	r.Created += o.Created
	r.Updated += o.Updated
	r.Deleted += o.Deleted
	r.SkippedExisting += o.SkippedExisting
	r.Failed += o.Failed
	r.Batches += o.Batches
	r.Accepted = append(r.Accepted, o.Accepted...)
	r.Removed = append(r.Removed, o.Removed...)
}

package reconcile

import (
	"context"
)

// Adapter defines model-specific reconciliation logic: how to load both sides,
// extract join keys, normalize a source record and compare it to a target.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "vehicles").
	Name() string

	// LoadSources returns every source record in source order.
	LoadSources(ctx context.Context) ([]SourceItem, error)

	// LoadTargets returns every target record in fetch order. Implementations
	// must walk the full listing; duplicate and orphan detection rely on it.
	LoadTargets(ctx context.Context) ([]TargetItem, error)

	// SourceKey returns the join key of a source record.
	SourceKey(item SourceItem) string

	// TargetKey returns the join key of a target record.
	TargetKey(item TargetItem) string

	// TargetID returns the store-assigned identifier of a target record.
	TargetID(item TargetItem) string

	// Normalize converts a source record into the target shape. An error fails
	// this record only; it is never retried.
	Normalize(item SourceItem) (Payload, error)

	// ResolveName returns the display name of a normalized payload.
	ResolveName(p Payload) string

	// CompareFields compares a normalized payload with its matched target and
	// returns one description per mismatching field. Empty means equivalent.
	CompareFields(p Payload, target TargetItem) []string
}

// Mutator is implemented by adapters that can write to the target store.
type Mutator interface {
	// Exists reports whether a target with the key exists right now.
	Exists(ctx context.Context, key string) (bool, error)

	// CreateBatch creates one batch of targets. Per-item rejections are
	// reported in the outcome; an error means the whole batch failed.
	CreateBatch(ctx context.Context, actions []Action) (BatchOutcome, error)

	// UpdateBatch updates one batch of targets, same contract as CreateBatch.
	UpdateBatch(ctx context.Context, actions []Action) (BatchOutcome, error)

	// Delete removes a single target. Deleting an already-deleted target must
	// not be an error.
	Delete(ctx context.Context, targetID string) error
}

// BatchOutcome reports per-item results of a batch call.
type BatchOutcome struct {
	Succeeded int
	Failed    int

	// Accepted lists the actions the store accepted. Creates carry the new
	// target id. Nil with no failures means the whole batch was accepted.
	Accepted []Action
}

// accepted resolves the actions of a batch the store accepted.
func (o BatchOutcome) accepted(batch []Action) []Action {
	if o.Accepted == nil && o.Failed == 0 {
		return batch
	}
	return o.Accepted
}

// Querier is implemented by adapters that can look up targets by key without
// a full listing. It enables ReconcileOne.
type Querier interface {
	QueryTargets(ctx context.Context, key string) ([]TargetItem, error)
}

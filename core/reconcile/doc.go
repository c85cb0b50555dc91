// Package reconcile provides a generic engine for reconciling an authoritative
// source against a target store that it feeds.
//
// # Architecture
//
// 1. Adapter: model-specific loading of both sides, join-key extraction,
//    normalization of a source record into the target shape, and field
//    comparison. Adapters that can write implement Mutator.
//
// 2. Engine: PlanFromItems indexes targets by key (first occurrence wins),
//    routes each source record to create, update or skip, and optionally plans
//    duplicate and orphan deletions. ReconcileWithPlan loads both sides
//    concurrently before planning. ReconcileOne answers for a single key.
//
// 3. Apply: ApplyPlan executes a plan. Creates are sequential (existence
//    re-check, then batches one after another) so two writers never race on
//    the same key; updates are batched and dispatched concurrently; deletions
//    run one at a time.
//
// 4. Janitor: FindDuplicates and FindOrphans are pure; Sweep re-lists the store
//    and deletes what they find.
//
// Every mutation failure is logged and counted in ApplyResult; a run keeps
// going with the remaining records.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: adapter, BatchSize: 20, Logger: log}
//	opts := reconcile.DefaultOptions()
//	plan, err := reconcile.ReconcileWithPlan(ctx, spec, opts)
//	res, err := reconcile.ApplyPlan(ctx, spec, plan, opts)
package reconcile

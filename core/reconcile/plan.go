package reconcile

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ApplyPlan executes the actions in a reconcile plan.
//
// Creates run first and strictly sequentially: optional one-at-a-time
// existence re-checks, then one batch after another. Updates follow, with
// batches dispatched concurrently since they target disjoint ids. Deletions run
// last, one at a time. Failures of a record or a batch are logged and counted
// and never abort the remaining work; the returned error is reserved for
// misconfiguration and context cancellation.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (*ApplyResult, error) {
	res := &ApplyResult{}
	if opts.DryRun {
		return res, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return nil, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	var (
		creates []Action
		updates []Action
		deletes []Action
	)
	for _, action := range plan.Actions {
		switch action.Type {
		case ActionCreate:
			creates = append(creates, action)
		case ActionUpdate:
			updates = append(updates, action)
		case ActionDeleteDuplicate, ActionDeleteOrphan:
			deletes = append(deletes, action)
		}
	}

	if len(creates) > 0 {
		r, err := applyCreates(ctx, spec, mutator, creates, opts)
		res.Add(r)
		if err != nil {
			return res, err
		}
	}

	if len(updates) > 0 {
		r, err := applyUpdates(ctx, spec, mutator, updates)
		res.Add(r)
		if err != nil {
			return res, err
		}
	}

	if len(deletes) > 0 {
		r, err := applyDeletes(ctx, spec, mutator, deletes)
		res.Add(r)
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

// ReconcileAndApply is a convenience wrapper that plans and applies actions.
func ReconcileAndApply(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, *ApplyResult, error) {
	plan, err := ReconcileWithPlan(ctx, spec, opts)
	if err != nil {
		return nil, nil, err
	}

	res, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, res, err
}

func applyCreates(ctx context.Context, spec *Spec, mutator Mutator, creates []Action, opts ReconcileOptions) (ApplyResult, error) {
	log := spec.logger()
	var res ApplyResult

	pending := creates
	if opts.VerifyBeforeCreate {
		pending = make([]Action, 0, len(creates))
		for _, action := range creates {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			exists, err := mutator.Exists(ctx, action.Key)
			if err != nil {
				log.Warn("Existence check failed, record skipped", zap.String("key", action.Key), zap.Error(err))
				res.Failed++
				continue
			}
			if exists {
				log.Info("Target already exists, creation skipped", zap.String("key", action.Key))
				res.SkippedExisting++
				continue
			}
			pending = append(pending, action)
		}
	}

	for i, batch := range Chunk(pending, spec.batchSize()) {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Batches++
		outcome, err := mutator.CreateBatch(ctx, batch)
		if err != nil {
			log.Error("Create batch failed", zap.Int("batch", i+1), zap.Int("size", len(batch)), zap.Error(err))
			res.Failed += len(batch)
			continue
		}
		res.Created += outcome.Succeeded
		res.Failed += outcome.Failed
		res.Accepted = append(res.Accepted, outcome.accepted(batch)...)
		log.Info("Create batch applied",
			zap.Int("batch", i+1),
			zap.Int("created", outcome.Succeeded),
			zap.Int("failed", outcome.Failed),
		)
	}

	return res, nil
}

func applyUpdates(ctx context.Context, spec *Spec, mutator Mutator, updates []Action) (ApplyResult, error) {
	log := spec.logger()

	var (
		mu  sync.Mutex
		res ApplyResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(spec.updateConcurrency())

	for i, batch := range Chunk(updates, spec.batchSize()) {
		g.Go(func() error {
			outcome, err := mutator.UpdateBatch(gctx, batch)

			mu.Lock()
			defer mu.Unlock()
			res.Batches++
			if err != nil {
				log.Error("Update batch failed", zap.Int("batch", i+1), zap.Int("size", len(batch)), zap.Error(err))
				res.Failed += len(batch)
				return nil
			}
			res.Updated += outcome.Succeeded
			res.Failed += outcome.Failed
			res.Accepted = append(res.Accepted, outcome.accepted(batch)...)
			log.Info("Update batch applied",
				zap.Int("batch", i+1),
				zap.Int("updated", outcome.Succeeded),
				zap.Int("failed", outcome.Failed),
			)
			return nil
		})
	}

	_ = g.Wait()
	return res, ctx.Err()
}

func applyDeletes(ctx context.Context, spec *Spec, mutator Mutator, deletes []Action) (ApplyResult, error) {
	log := spec.logger()
	var res ApplyResult

	for _, action := range deletes {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := mutator.Delete(ctx, action.TargetID); err != nil {
			log.Warn("Failed to delete target",
				zap.String("target_id", action.TargetID),
				zap.String("key", action.Key),
				zap.String("reason", string(action.Type)),
				zap.Error(err),
			)
			res.Failed++
			continue
		}
		res.Deleted++
		res.Removed = append(res.Removed, action)
	}

	return res, nil
}

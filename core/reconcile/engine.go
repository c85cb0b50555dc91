package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReconcileWithPlan loads both sides concurrently and returns a plan.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, error) {
	var (
		sources []SourceItem
		targets []TargetItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := spec.Adapter.LoadSources(gctx)
		if err != nil {
			return fmt.Errorf("failed to load sources: %w", err)
		}
		sources = items
		return nil
	})
	g.Go(func() error {
		items, err := spec.Adapter.LoadTargets(gctx)
		if err != nil {
			return fmt.Errorf("failed to load targets: %w", err)
		}
		targets = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return PlanFromItems(sources, targets, spec.Adapter, spec.logger(), opts), nil
}

// PlanFromItems builds a plan from already loaded items. It never fails:
// records that cannot be normalized become Failures.
func PlanFromItems(sources []SourceItem, targets []TargetItem, adapter Adapter, logger *zap.Logger, opts ReconcileOptions) *ReconcilePlan {
	if logger == nil {
		logger = zap.NewNop()
	}

	index, targetIDs := buildTargetIndex(targets, adapter)

	plan := &ReconcilePlan{
		SourceKeys: make(map[string]struct{}, len(sources)),
	}
	plan.Summary.Sources = len(sources)
	plan.Summary.Targets = len(targets)

	results := make(map[string]*ReconcileResult)

	for _, src := range sources {
		key := adapter.SourceKey(src)
		if _, seen := plan.SourceKeys[key]; seen {
			logger.Warn("Duplicate source record skipped", zap.String("key", key))
			plan.Summary.SourceDuplicates++
			continue
		}
		plan.SourceKeys[key] = struct{}{}

		result := &ReconcileResult{
			Key:           key,
			SourcePresent: true,
			TargetIDs:     targetIDs[key],
			Mismatch:      []string{},
		}
		results[key] = result

		payload, err := adapter.Normalize(src)
		if err != nil {
			logger.Warn("Source record skipped", zap.String("key", key), zap.Error(err))
			result.Error = err.Error()
			plan.Failures = append(plan.Failures, Failure{Key: key, Reason: err.Error()})
			plan.Summary.Failures++
			continue
		}
		result.Name = adapter.ResolveName(payload)

		target, matched := index[key]
		if !matched {
			if opts.DoCreate {
				plan.Actions = append(plan.Actions, Action{
					Type:    ActionCreate,
					Key:     key,
					Reason:  "missing in target",
					Payload: payload,
				})
				plan.Summary.Creates++
			}
			continue
		}

		result.Mismatch = adapter.CompareFields(payload, target)
		if len(result.Mismatch) == 0 {
			plan.Summary.Unchanged++
			continue
		}

		if opts.DoUpdate {
			plan.Actions = append(plan.Actions, Action{
				Type:     ActionUpdate,
				Key:      key,
				TargetID: adapter.TargetID(target),
				Reason:   fmt.Sprintf("mismatch: %s", strings.Join(result.Mismatch, "; ")),
				Payload:  payload,
			})
			plan.Summary.Updates++
		}
	}

	// Keys only present in the target store.
	for _, t := range targets {
		key := adapter.TargetKey(t)
		if _, ok := results[key]; ok {
			continue
		}
		results[key] = &ReconcileResult{Key: key, TargetIDs: targetIDs[key], Mismatch: []string{}}
	}

	if opts.DoPurgeDuplicates {
		for _, id := range FindDuplicates(targets, adapter) {
			plan.Actions = append(plan.Actions, Action{
				Type:     ActionDeleteDuplicate,
				TargetID: id.TargetID,
				Key:      id.Key,
				Reason:   "duplicate key",
			})
			plan.Summary.DuplicateDeletes++
		}
	}

	if opts.DoPurgeOrphans {
		if len(plan.SourceKeys) == 0 && !opts.AllowEmptySource {
			logger.Warn("Source is empty, orphan purge skipped")
		} else {
			for _, id := range FindOrphans(targets, plan.SourceKeys, adapter) {
				plan.Actions = append(plan.Actions, Action{
					Type:     ActionDeleteOrphan,
					TargetID: id.TargetID,
					Key:      id.Key,
					Reason:   "missing in source",
				})
				plan.Summary.OrphanDeletes++
			}
		}
	}

	plan.Results = make([]ReconcileResult, 0, len(results))
	for _, r := range results {
		plan.Results = append(plan.Results, *r)
	}
	sort.Slice(plan.Results, func(i, j int) bool {
		return plan.Results[i].Key < plan.Results[j].Key
	})

	return plan
}

// ReconcileOne performs a targeted reconciliation for a single key. The source
// is loaded in full (the feed has no lookup); targets are queried by key when
// the adapter implements Querier, otherwise listed in full.
func ReconcileOne(ctx context.Context, spec *Spec, key string) (*ReconcileResult, error) {
	sources, err := spec.Adapter.LoadSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}

	var targets []TargetItem
	if q, ok := spec.Adapter.(Querier); ok {
		targets, err = q.QueryTargets(ctx, key)
	} else {
		targets, err = spec.Adapter.LoadTargets(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}

	var matchedSources []SourceItem
	for _, s := range sources {
		if spec.Adapter.SourceKey(s) == key {
			matchedSources = append(matchedSources, s)
			break
		}
	}
	var matchedTargets []TargetItem
	for _, t := range targets {
		if spec.Adapter.TargetKey(t) == key {
			matchedTargets = append(matchedTargets, t)
		}
	}

	plan := PlanFromItems(matchedSources, matchedTargets, spec.Adapter, spec.logger(), ReconcileOptions{})
	for _, r := range plan.Results {
		if r.Key == key {
			return &r, nil
		}
	}

	return &ReconcileResult{Key: key, Mismatch: []string{}}, nil
}

// buildTargetIndex maps each key to its first target and lists every target id per key.
func buildTargetIndex(targets []TargetItem, adapter Adapter) (map[string]TargetItem, map[string][]string) {
	index := make(map[string]TargetItem, len(targets))
	ids := make(map[string][]string, len(targets))

	for _, t := range targets {
		key := adapter.TargetKey(t)
		if _, exists := index[key]; !exists {
			index[key] = t
		}
		ids[key] = append(ids[key], adapter.TargetID(t))
	}

	return index, ids
}

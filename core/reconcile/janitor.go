package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// TargetRef identifies a target marked for removal.
type TargetRef struct {
	Key      string
	TargetID string
}

// FindDuplicates groups targets by key, keeps the first occurrence of each
// group (fetch order) and returns the rest.
func FindDuplicates(targets []TargetItem, adapter Adapter) []TargetRef {
	seen := make(map[string]struct{}, len(targets))
	var dups []TargetRef

	for _, t := range targets {
		key := adapter.TargetKey(t)
		if _, ok := seen[key]; ok {
			dups = append(dups, TargetRef{Key: key, TargetID: adapter.TargetID(t)})
			continue
		}
		seen[key] = struct{}{}
	}

	return dups
}

// FindOrphans returns every target whose key is absent from sourceKeys.
func FindOrphans(targets []TargetItem, sourceKeys map[string]struct{}, adapter Adapter) []TargetRef {
	var orphans []TargetRef

	for _, t := range targets {
		key := adapter.TargetKey(t)
		if _, ok := sourceKeys[key]; ok {
			continue
		}
		orphans = append(orphans, TargetRef{Key: key, TargetID: adapter.TargetID(t)})
	}

	return orphans
}

// SweepResult reports what a janitor sweep found and removed.
type SweepResult struct {
	Duplicates []TargetRef `json:"duplicates"`
	Orphans    []TargetRef `json:"orphans"`
	ApplyResult
}

// Sweep re-lists the full target store, then deletes duplicates and orphans one
// at a time. Deletion failures are logged and counted, never returned. Only a
// failure to list the store is an error.
func Sweep(ctx context.Context, spec *Spec, sourceKeys map[string]struct{}, opts ReconcileOptions) (*SweepResult, error) {
	log := spec.logger()

	targets, err := spec.Adapter.LoadTargets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load targets: %w", err)
	}

	res := &SweepResult{}
	if opts.DoPurgeDuplicates {
		res.Duplicates = FindDuplicates(targets, spec.Adapter)
	}
	if opts.DoPurgeOrphans {
		if len(sourceKeys) == 0 && !opts.AllowEmptySource {
			log.Warn("Source is empty, orphan purge skipped")
		} else {
			res.Orphans = FindOrphans(targets, sourceKeys, spec.Adapter)
		}
	}

	if len(res.Duplicates) == 0 && len(res.Orphans) == 0 {
		log.Info("No duplicates or orphans found")
		return res, nil
	}
	if opts.DryRun {
		return res, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return nil, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	deleted := make(map[string]struct{})
	remove := func(ref TargetRef, typ ActionType) {
		if _, done := deleted[ref.TargetID]; done {
			return
		}
		deleted[ref.TargetID] = struct{}{}

		if err := mutator.Delete(ctx, ref.TargetID); err != nil {
			log.Warn("Failed to delete target",
				zap.String("target_id", ref.TargetID),
				zap.String("key", ref.Key),
				zap.String("reason", string(typ)),
				zap.Error(err),
			)
			res.Failed++
			return
		}
		log.Info("Deleted target",
			zap.String("target_id", ref.TargetID),
			zap.String("key", ref.Key),
			zap.String("reason", string(typ)),
		)
		res.Deleted++
		res.Removed = append(res.Removed, Action{
			Type:     typ,
			Key:      ref.Key,
			TargetID: ref.TargetID,
			Reason:   string(typ),
		})
	}

	for _, ref := range res.Duplicates {
		remove(ref, ActionDeleteDuplicate)
	}
	for _, ref := range res.Orphans {
		remove(ref, ActionDeleteOrphan)
	}

	return res, nil
}

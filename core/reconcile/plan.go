package reconcile

import (
	"context"
	"fmt"

	"audio-loader/core/storage"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results
// and actions. It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, client storage.Client, bucket string, opts ReconcileOptions) (*ReconcilePlan, error) {
	cache, err := GetOrBuildCache(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}

	results := reconcileFromCache(cache, spec.Adapter)
	summary, actions := buildPlanFromResults(results, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions in plan and returns how many ran.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	var deleteStorageKeys []string
	for _, action := range plan.Actions {
		if action.Type == ActionDeleteStorage {
			deleteStorageKeys = append(deleteStorageKeys, action.Key)
		}
	}
	if len(deleteStorageKeys) == 0 {
		return 0, nil
	}

	// Whatever the outcome, the storage index is stale now.
	defer InvalidateCache(spec)

	if batchDeleter, ok := mutator.(StorageBatchDeleter); ok {
		if err := batchDeleter.DeleteStorageBatch(ctx, deleteStorageKeys); err != nil {
			return executed, fmt.Errorf("failed to batch delete storage keys: %w", err)
		}
		return len(deleteStorageKeys), nil
	}

	for _, key := range deleteStorageKeys {
		if err := mutator.DeleteStorage(ctx, key); err != nil {
			return executed, fmt.Errorf("failed to delete storage key %s: %w", key, err)
		}
		executed++
	}
	return executed, nil
}

// ReconcileAndApply plans and optionally applies actions.
func ReconcileAndApply(ctx context.Context, spec *Spec, client storage.Client, bucket string, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, client, bucket, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}

func buildPlanFromResults(results []ReconcileResult, opts ReconcileOptions) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalItems = len(results)

	for _, result := range results {
		if result.CatalogPresent && !result.StoragePresent {
			summary.MissingStorage++
		}

		if result.StoragePresent && !result.CatalogPresent {
			summary.Orphans++
			if opts.DoPurge {
				actions = append(actions, Action{
					Type:   ActionDeleteStorage,
					Key:    result.ID,
					Reason: "not declared in catalog",
				})
				summary.PurgeActions++
			}
		}
	}

	return summary, actions
}

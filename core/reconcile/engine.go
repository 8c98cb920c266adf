package reconcile

import (
	"context"
	"sort"

	"audio-loader/core/storage"
)

// ReconcileAll compares every catalog file against storage and returns one
// result per file known to either side, sorted by path.
func ReconcileAll(ctx context.Context, spec *Spec, client storage.Client, bucket string) ([]ReconcileResult, error) {
	cache, err := BuildCache(ctx, spec, client, bucket)
	if err != nil {
		return nil, err
	}
	return reconcileFromCache(cache, spec.Adapter), nil
}

// ReconcileOne performs a targeted reconciliation for a single file. It uses
// the cached indices when caching is enabled, targeted lookups otherwise.
func ReconcileOne(ctx context.Context, spec *Spec, client storage.Client, bucket string, query Query) (*ReconcileResult, error) {
	if spec.CacheTTL > 0 {
		cache, err := GetOrBuildCache(ctx, spec, client, bucket)
		if err != nil {
			return nil, err
		}

		key := findKeyFromQuery(query, cache, spec.Adapter)
		if key == "" {
			return &ReconcileResult{ID: query.ID}, nil
		}
		result := buildResult(key, cache.CatalogIndex, cache.StorageSet, spec.Adapter)
		return &result, nil
	}

	key, item, err := spec.Adapter.QueryCatalog(ctx, query)
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = query.ID
	}

	storagePresent := false
	if key != "" {
		storagePresent, err = spec.Adapter.CheckStorage(ctx, client, bucket, spec.StoragePrefix, key)
		if err != nil {
			return nil, err
		}
	}

	return &ReconcileResult{
		ID:             key,
		Name:           spec.Adapter.ResolveName(key, item),
		Metadata:       spec.Adapter.GetMetadata(item),
		CatalogPresent: item != nil,
		StoragePresent: storagePresent,
	}, nil
}

func reconcileFromCache(cache *ReconcileCache, adapter Adapter) []ReconcileResult {
	union := buildUnion(cache.CatalogIndex, cache.StorageSet)

	results := make([]ReconcileResult, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, cache.CatalogIndex, cache.StorageSet, adapter))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

func buildUnion(catalogIndex map[string]CatalogItem, storageSet map[string]struct{}) map[string]struct{} {
	union := make(map[string]struct{}, len(catalogIndex)+len(storageSet))
	for key := range catalogIndex {
		union[key] = struct{}{}
	}
	for key := range storageSet {
		union[key] = struct{}{}
	}
	return union
}

func buildResult(key string, catalogIndex map[string]CatalogItem, storageSet map[string]struct{}, adapter Adapter) ReconcileResult {
	item, catalogPresent := catalogIndex[key]
	_, storagePresent := storageSet[key]

	return ReconcileResult{
		ID:             key,
		Name:           adapter.ResolveName(key, item),
		Metadata:       adapter.GetMetadata(item),
		CatalogPresent: catalogPresent,
		StoragePresent: storagePresent,
	}
}

func findKeyFromQuery(query Query, cache *ReconcileCache, adapter Adapter) string {
	if query.ID != "" {
		if _, ok := cache.CatalogIndex[query.ID]; ok {
			return query.ID
		}
		if _, ok := cache.StorageSet[query.ID]; ok {
			return query.ID
		}
	}

	if query.Name != "" {
		for key, item := range cache.CatalogIndex {
			if adapter.ResolveName(key, item) == query.Name {
				return key
			}
		}
	}
	return ""
}

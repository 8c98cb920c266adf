// Package reconcile compares the files the catalog declares against the
// objects present in storage.
//
// Both sides are loaded into in-memory indices concurrently, then the union
// of keys is walked once:
//
//   - catalog only: the file is missing from storage and loads of the
//     objects using it will fail.
//   - storage only: the object is an orphan and may be purged.
//
// Adapters decide which objects belong to a family of files (soundbanks,
// media) and how catalog entries are named. A TTL cache with stampede
// protection serves targeted lookups.
//
// # Usage
//
//	spec := &reconcile.Spec{
//	    Adapter:       adapter,
//	    CacheTTL:      5 * time.Minute,
//	    StoragePrefix: "cooked/Windows",
//	}
//
//	results, err := reconcile.ReconcileAll(ctx, spec, client, bucket)
//	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, client, bucket, opts)
package reconcile

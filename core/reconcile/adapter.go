package reconcile

import (
	"context"

	"audio-loader/core/storage"
)

// Adapter defines how one family of files is indexed on both sides.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "soundbanks").
	Name() string

	// LoadCatalogIndex returns every file the catalog declares, keyed by
	// path relative to the storage prefix.
	LoadCatalogIndex(ctx context.Context) (map[string]CatalogItem, error)

	// LoadStorageSet lists the storage objects under prefix and returns the
	// keys the adapter recognizes. Implementations should use a single
	// paginated listing and avoid per-object HEAD calls.
	LoadStorageSet(ctx context.Context, client storage.Client, bucket, prefix string) (map[string]struct{}, error)

	// ExtractStorageKey turns an object key into a file key. ok is false
	// for objects outside the adapter's family.
	ExtractStorageKey(objectKey, prefix string) (key string, ok bool)

	// ResolveName returns the display name for a catalog item. item may be
	// nil for storage orphans.
	ResolveName(key string, item CatalogItem) string

	// GetMetadata returns adapter-specific metadata for the result.
	GetMetadata(item CatalogItem) map[string]string

	// QueryCatalog performs a targeted catalog lookup. It returns the key
	// and a nil item when nothing matches.
	QueryCatalog(ctx context.Context, query Query) (string, CatalogItem, error)

	// CheckStorage reports whether the object for key exists.
	CheckStorage(ctx context.Context, client storage.Client, bucket, prefix, key string) (bool, error)
}

// Mutator is implemented by adapters able to delete storage objects.
type Mutator interface {
	// DeleteStorage removes the object for key.
	DeleteStorage(ctx context.Context, key string) error
}

// StorageBatchDeleter is an optional Mutator extension removing many objects
// in one request.
type StorageBatchDeleter interface {
	DeleteStorageBatch(ctx context.Context, keys []string) error
}

package reconcile

import "time"

// ReconcileResult represents the reconciliation output for a single file.
type ReconcileResult struct {
	// ID is the file path relative to the storage prefix.
	ID string `json:"id"`

	// Name is the display name of the object owning the file.
	Name string `json:"name"`

	// CatalogPresent indicates whether the catalog declares the file.
	CatalogPresent bool `json:"catalog_present"`

	// StoragePresent indicates whether the file exists in storage.
	StoragePresent bool `json:"storage_present"`

	// Metadata contains adapter-specific data (e.g., kind).
	Metadata map[string]string `json:"metadata"`
}

// Query represents a search query for targeted reconciliation.
type Query struct {
	// ID is the file path to search for.
	ID string

	// Name is the display name to search for.
	Name string
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter provides file-family specific reconciliation logic.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration

	// StoragePrefix is the folder the catalog paths are relative to,
	// usually "<base>/<platform>".
	StoragePrefix string
}

// CacheKey returns a unique key for caching based on spec parameters.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name() + "|" + s.StoragePrefix
}

// CatalogItem represents a catalog entry. Adapters define the concrete type.
type CatalogItem any

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionDeleteStorage deletes an orphan file from storage.
	ActionDeleteStorage ActionType = "delete_storage"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the file path relative to the storage prefix.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	Results []ReconcileResult `json:"results"`
	Actions []Action          `json:"actions"`
	Summary PlanSummary       `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the number of unique files across both sources.
	TotalItems int `json:"total_items"`

	// MissingStorage counts catalog files with no storage object.
	MissingStorage int `json:"missing_storage"`

	// Orphans counts storage objects the catalog does not declare.
	Orphans int `json:"orphans"`

	// PurgeActions counts planned delete actions.
	PurgeActions int `json:"purge_actions"`
}

// ReconcileOptions controls reconcile behavior for purge operations.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge plans the deletion of orphan storage objects.
	DoPurge bool

	// Confirmed indicates the caller has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

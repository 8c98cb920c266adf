// Package catalog stores the cooked descriptions of a sound project and
// hands them to the resource manager.
//
// The cooking step writes a YAML manifest; ImportManifest validates it and
// replaces the catalog tables with its content. At runtime the Repository
// resolves records by kind and short id, with a TTL cache in front of the
// database and de-duplication of concurrent lookups for the same record.
// Per-language requirement sets are kept as JSON columns.
package catalog

// Package metrics exposes Prometheus collectors for the resource loader:
// backend calls, load outcomes, live nodes per kind and language swaps.
package metrics

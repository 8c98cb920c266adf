// Package resources exposes the resource manager over HTTP.
//
// Records are looked up in the catalog by kind and short id, loaded through
// the manager and held in one slot per record until they are unloaded.
// Loading a record twice replaces its handle; the physical files stay
// resident across the swap because the manager reference counts them.
//
// # Routes
//
//   - POST   /resources/:kind/:id/load  load (optional ?language=)
//   - DELETE /resources/:kind/:id       unload
//   - GET    /resources                 attached objects
//   - PUT    /language                  switch language
//   - GET    /stats                     manager and engine counters
//   - GET    /metrics                   Prometheus exposition
package resources

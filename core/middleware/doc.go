// Package middleware groups the Fiber middleware mounted in front of the
// loader control surface.
//
// # Components
//
//   - auth: rejects requests without the configured X-API-Key header, except
//     for the public paths it is given (the Prometheus scrape route).
//   - rayid: tags every request with a RayID, returned in the response
//     headers and attached to request logs.
package middleware

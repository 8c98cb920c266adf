// Package integrity checks that the storage bucket and the catalog database
// can serve the loader.
//
// # Checks Provided
//
//   - Structure: the platform folder under the base path holds objects.
//   - Schema: the catalog tables carry every column the catalog models map.
//   - Files: every file the catalog declares exists in storage, and every
//     bank or media object in storage is declared (see package files).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/schema : Runs catalog schema check.
//   - GET /integrity/files/:family : Reconciles soundbanks or media
//     (supports ?purge=true&confirm=true).
//   - GET /integrity/files/:family/find : Reconciles one file (?path= or ?name=).
package integrity

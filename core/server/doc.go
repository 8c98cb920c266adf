// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the platforms cooked data can be loaded for.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key, the target platform
// and the language loaded at startup.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the start command to pick the platform folder of the cooked data.
package server

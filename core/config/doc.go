// Package config provides configuration management for the audio loader.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// section and are registered recursively, so every key can be overridden with
// its upper-cased, underscore-joined environment name (loader.base_path is
// LOADER_BASE_PATH).
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, platform and startup language
//   - Storage: S3/MinIO credentials and the bucket holding cooked data
//   - Database: catalog connection (mysql or sqlite)
//   - Log: logging level and format
//   - Loader: storage base path and the language swap policy
//   - Engine: I/O concurrency and frame interval of the sound engine
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Platform)
package config

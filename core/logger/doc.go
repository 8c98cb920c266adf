// Package logger provides a structured logging facility based on Zap.
//
// The debug level selects zap's development configuration, every other level
// the production one. Encoding is json unless the console format is asked
// for, in which case levels are colored and stack traces are dropped.
//
// # Context Awareness
//
// WithRayID extracts the ray id the rayid middleware stored in a Fiber
// context and attaches it to the logger, so every line written while
// serving a request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	log.Info("Loader started", zap.String("platform", "Windows"))
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Load failed", zap.Error(err))
package logger

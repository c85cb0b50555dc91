// Package logger provides the structured logging facility based on Zap.
//
// Level "debug" selects zap's development configuration; every other level uses
// the production configuration with the level applied. Format "console" gives
// colored human output (the default for scheduled runs reading a terminal or
// journald), "json" gives machine-parsable lines.
//
// # Correlation
//
// WithRunID tags every line of a sync run with its run id. WithRayID does the
// same for HTTP requests served by the control surface, using the ray id set
// by the rayid middleware.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "json"})
//	l := logger.WithRunID(log, runID)
//	l.Info("sync started")
package logger

// Package logging provides structured logging for the object store engine.
//
// # Overview
//
// Logger wraps a *zap.SugaredLogger with two persistent-context idioms used
// throughout this module: a request ID (stamped on every entry once set)
// and arbitrary key-value fields.
//
// # Creating a Logger
//
//	logger := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "/var/log/gobj/gobj.log",
//	})
//
// Or use defaults:
//
//	logger := logging.Default() // Info level, text format, stdout
//
// For testing, use a no-op logger:
//
//	logger := logging.Nop()
//
// # Request IDs
//
//	runID := logging.GenerateRequestID()
//	scoped := logger.WithRequestID(runID)
//	scoped.Info("scoped save block flushed", "objects", 3)
//
// # Contextual fields
//
//	classLogger := logger.With("class", "article")
//	classLogger.Info("rebuild started")
package logging

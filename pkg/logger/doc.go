// Package logger provides a structured logging interface for topwayft.
//
// It wraps zerolog with a small Logger interface supporting:
// - Multiple log levels (Debug, Info, Warn, Error)
// - Structured logging with fields
// - Pretty console output on stderr, so stdout only carries the report
// - Optional append-only file output
// - A global logger instance for easy access
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	log := logger.GetLogger()
//	log.WithField("subreddit", "rawdenim").Info("Searching")
//	logger.WithError(err).Error("Run failed")
//
// Tests can pass NewTestLogger() to components and assert on the captured
// messages, or NewNopLogger() to discard them.
package logger

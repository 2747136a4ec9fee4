// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Shell starting", zap.String("port", "8000"))
//	logger.Error("Failed to save session", zap.Error(err))
package logging

// Package logging builds the zerolog loggers used across gridpager.
//
// Loggers travel in context.Context: the CLI attaches one per command, and
// library code retrieves it with FromContext so it logs with the caller's level,
// output and trace id. Without a logger in context FromContext returns a
// disabled logger, so library code never has to nil-check.
package logging

// Package logging assembles structured slog loggers and formatting helpers used
// across tunebridge.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so matching code can tag log
// lines with track indexes, stages, playlist names, and run identifiers. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging

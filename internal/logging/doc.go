// Package logging assembles structured slog loggers and formatting helpers used
// across avmux.
//
// It owns the console and JSON handlers, fans records out to the terminal and
// the optional state-directory log file, and exposes context helpers so batch
// code can tag every line with the run ID and pair index. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging

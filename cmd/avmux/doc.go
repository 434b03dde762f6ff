// Package main hosts the avmux CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once, applies flag
// overrides, and hands the batch to internal/batch. Rendering lives here:
// progress bars, pair tables, status lines and run history views.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced through commands or flags here.
package main

// Package batch drives an avmux run from directory listings to muxed outputs.
//
// Run is the top-level workflow used by the CLI:
//
//  1. the output directory is checked before anything else
//  2. movie and sound directories are listed and ordered
//  3. the listings are validated and planned into pairs
//  4. a lock in the state directory serializes concurrent runs
//  5. Combiner muxes each pair in index order
//  6. the report is recorded in run history when enabled
//
// Combiner stops at the first failing pair unless continue-on-error is set.
// Pairs that were never attempted are reported as skipped.
package batch

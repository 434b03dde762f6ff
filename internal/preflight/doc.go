// Package preflight provides readiness checks for the directories and
// binaries a batch depends on.
//
// These checks run in two contexts:
//   - batch.Run checks the output directory before scanning so a run never
//     starts work it cannot write.
//   - The CLI "avmux status" command runs every check and renders the results.
package preflight

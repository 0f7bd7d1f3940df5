// Package preflight provides readiness checks for the binaries, paths, and
// devices a run depends on.
//
// The run command calls RunAll before starting the pipeline; any failed
// required check aborts the run before a single subprocess is launched. The
// CLI reuses the individual check functions to display health.
package preflight

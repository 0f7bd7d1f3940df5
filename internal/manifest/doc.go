// Package manifest persists extraction runs in SQLite so operators can audit
// what a run produced after the fact.
//
// Each run gets a row keyed by a generated run ID, and every work item
// processed during the run gets an item row recording its target path, the
// device that served it, and the outcome. The database is an audit trail, not
// a checkpoint: a new run always processes the full worklist regardless of
// what earlier runs recorded.
//
// Schema changes bump schemaVersion in schema.go; mismatched databases are
// rejected rather than migrated.
package manifest

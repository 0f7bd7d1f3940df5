// Package worklist discovers labelled audio work items from a dataset tree
// and partitions them into per-device shards.
//
// Label files are pipe-delimited text files (speaker|file|text, one item per
// line) that may arrive in a handful of legacy encodings; discovery tries a
// fixed fallback chain and skips what it cannot decode rather than failing
// the run.
package worklist

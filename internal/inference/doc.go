// Package inference provides the per-device speech tokenizer session.
//
// Each session owns one runner subprocess bound to one accelerator for the
// session's lifetime. Requests and responses are exchanged as
// newline-delimited JSON over the runner's pipes; the protocol is strictly
// synchronous (one request in flight per session), which matches how the
// pipeline drives it.
package inference

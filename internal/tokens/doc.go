// Package tokens persists speech-token sequences as NumPy .npy artifacts so
// the downstream training tooling can load them directly.
package tokens

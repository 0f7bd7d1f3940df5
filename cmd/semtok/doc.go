// Command semtok extracts speech token sequences from labeled audio datasets
// by fanning the work out across accelerator devices.
package main

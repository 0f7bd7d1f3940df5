// Package device enumerates the host's compute accelerators and watches for
// hotplug events while a run is in flight.
//
// Enumeration scans /dev for accelerator nodes; a config override bypasses
// the scan entirely (useful on hosts where device files are namespaced away).
// The watcher is advisory only: a device disappearing mid-run surfaces as the
// inference session failing, the watcher just makes the log explain why.
package device

package device

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Device identifies one compute accelerator.
type Device struct {
	// ID is the ordinal passed to the inference runner.
	ID int
	// Node is the /dev path the ordinal was derived from, empty for
	// devices declared by configuration override.
	Node string
}

// nodePatterns match accelerator device nodes relative to /dev. The capture
// group is the device ordinal.
var nodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^nvidia(\d+)$`),
	regexp.MustCompile(`^accel/accel(\d+)$`),
}

// Discover returns the host's accelerators in ordinal order. When override is
// positive the scan is skipped and override synthetic devices are returned.
func Discover(override int) ([]Device, error) {
	if override > 0 {
		devices := make([]Device, override)
		for i := range devices {
			devices[i] = Device{ID: i}
		}
		return devices, nil
	}
	return scan("/dev")
}

func scan(devRoot string) ([]Device, error) {
	candidates := make(map[int]Device)

	entries, err := os.ReadDir(devRoot)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", devRoot, err)
	}
	for _, entry := range entries {
		match(devRoot, entry.Name(), candidates)
	}
	if accel, err := os.ReadDir(filepath.Join(devRoot, "accel")); err == nil {
		for _, entry := range accel {
			match(devRoot, "accel/"+entry.Name(), candidates)
		}
	}

	devices := make([]Device, 0, len(candidates))
	for _, d := range candidates {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices, nil
}

func match(devRoot, name string, candidates map[int]Device) {
	for _, pattern := range nodePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, taken := candidates[id]; !taken {
			candidates[id] = Device{ID: id, Node: filepath.Join(devRoot, name)}
		}
		return
	}
}

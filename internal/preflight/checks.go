package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"semtok/internal/audio"
	"semtok/internal/device"
)

const (
	// minDatasetBytes is the free space floor for the dataset filesystem.
	// Token artifacts are small; this guards against an already-full disk.
	minDatasetBytes = 512 * 1024 * 1024
	// minManifestBytes is the free space floor for the manifest database.
	minManifestBytes = 64 * 1024 * 1024
)

// statfs and probeDuration are swapped in tests.
var (
	statfs        = realStatfs
	probeDuration = audio.ProbeDuration
)

// CheckBinary verifies the command resolves on PATH or as an absolute path.
func CheckBinary(name, command, description string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Detail: "command not configured; " + description}
	}
	if _, err := exec.LookPath(command); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found; %s", command, description)}
	}
	return Result{Name: name, Passed: true, Detail: command}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckModelFile verifies the serialized tokenizer exists and is a regular file.
func CheckModelFile(path string) Result {
	const name = "Model file"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "model_path not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if info.Size() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: empty file)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDevices verifies at least one accelerator is available.
func CheckDevices(devices []device.Device) Result {
	const name = "Accelerators"
	if len(devices) == 0 {
		return Result{Name: name, Detail: "no accelerator devices found (set pipeline.devices to override discovery)"}
	}
	nodes := make([]string, 0, len(devices))
	for _, dev := range devices {
		nodes = append(nodes, dev.Node)
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(nodes, ", ")}
}

// CheckSampleAudio probes the first work item with ffprobe to confirm the
// toolchain can actually read the corpus before any device session starts.
func CheckSampleAudio(ctx context.Context, ffprobeBinary, samplePath string) Result {
	const name = "Sample audio"
	if samplePath == "" {
		return Result{Name: name, Passed: true, Detail: "no work items to probe"}
	}
	seconds, err := probeDuration(ctx, ffprobeBinary, samplePath)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", samplePath, err)}
	}
	if seconds <= 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: reports zero duration)", samplePath)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1fs)", filepath.Base(samplePath), seconds)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minBytes free.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	_, free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %d MiB free, need %d MiB)", path, free>>20, minBytes>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

func realStatfs(path string) (uint64, uint64, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

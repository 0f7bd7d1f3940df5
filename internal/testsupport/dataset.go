package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteLabelFile writes a label file with the given lines under
// datasetDir/group and returns its path. Lines use the speaker|file|text
// layout the discovery walk expects.
func WriteLabelFile(t testing.TB, datasetDir, group, name string, lines []string) string {
	t.Helper()

	dir := filepath.Join(datasetDir, group)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir label dir: %v", err)
	}
	path := filepath.Join(dir, name)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write label file: %v", err)
	}
	return path
}

package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with size bytes of repeating content, creating
// parent directories as needed. Sizes below one byte are rounded up so the
// file always exists with content.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size < 1 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}

	pattern := bytes.Repeat([]byte("shelf media "), 512)
	content := bytes.Repeat(pattern, int(size/int64(len(pattern)))+1)
	if err := os.WriteFile(path, content[:size], 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

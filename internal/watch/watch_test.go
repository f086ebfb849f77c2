package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.oriz")

	if err := os.WriteFile(target, []byte("fn main() -> i64 { 1 }"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := os.WriteFile(target, []byte("fn main() -> i64 { 2 }"), 0o644); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	select {
	case path := <-w.Changes():
		if filepath.Clean(path) != filepath.Clean(target) && filepath.Dir(path) != dir {
			t.Errorf("Changes() reported %q, want something under %q", path, dir)
		}
	case err := <-w.Errors():
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change notification")
	}
}

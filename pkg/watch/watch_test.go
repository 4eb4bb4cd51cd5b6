package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string) (<-chan []string, context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New([]string{".sol"}, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	changes := make(chan []string, 8)
	done := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		done <- w.Run(ctx, func(paths []string) { changes <- paths })
	}()
	return changes, cancel, done
}

func TestWatcherReportsChangedSources(t *testing.T) {
	dir := t.TempDir()
	changes, cancel, done := startWatcher(t, dir)
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "a.sol")
	if err := os.WriteFile(src, []byte("contract A {}"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		if len(paths) != 1 || paths[0] != src {
			t.Errorf("expected only %s, got %v", src, paths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWatcherBatchesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	changes, cancel, _ := startWatcher(t, dir)
	defer cancel()

	src := filepath.Join(dir, "b.sol")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(src, []byte("contract B {}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case paths := <-changes:
		if len(paths) != 1 {
			t.Errorf("expected one batched path, got %v", paths)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestAddMissingPath(t *testing.T) {
	w, err := New([]string{".sol"}, time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected an error for a missing path")
	}
}

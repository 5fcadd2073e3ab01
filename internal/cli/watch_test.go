package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("Go\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := newFileWatcher(path, 100*time.Millisecond, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := w.Start(ctx)

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changes:
		t.Fatal("change reported for a sibling file")
	case <-time.After(200 * time.Millisecond):
	}

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("Go\nRust\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case <-changes:
		t.Error("burst of writes reported more than once")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestIsChange(t *testing.T) {
	tests := []struct {
		op   fsnotify.Op
		want bool
	}{
		{fsnotify.Create, true},
		{fsnotify.Write, true},
		{fsnotify.Rename, true},
		{fsnotify.Remove, false},
		{fsnotify.Chmod, false},
		{fsnotify.Write | fsnotify.Chmod, true},
	}
	for _, tt := range tests {
		if got := isChange(tt.op); got != tt.want {
			t.Errorf("isChange(%v) = %v, want %v", tt.op, got, tt.want)
		}
	}
}

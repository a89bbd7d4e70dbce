package watch

import (
	"context"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ironsheep/plate-reader/internal/imaging"
)

func TestWatcher_DeliversNewImages(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, 50*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	found := make(chan string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(path string) { found <- path })
	}()

	// Give the watcher time to register before creating files.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := filepath.Join(dir, "car.png")
	if err := imaging.Save(image.NewGray(image.Rect(0, 0, 4, 4)), want); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case got := <-found:
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the new image")
	}

	select {
	case extra := <-found:
		t.Errorf("unexpected delivery %q", extra)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), 0, nil)
	if err := w.Watch(context.Background(), func(string) {}); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestNew_Defaults(t *testing.T) {
	w := New("/tmp", 0, nil)
	if w.settle != DefaultSettle {
		t.Errorf("settle: got %v, want %v", w.settle, DefaultSettle)
	}
	if w.logger == nil {
		t.Error("logger should default")
	}
}

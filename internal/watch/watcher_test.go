package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := New(dir, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		w.Close()
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w
}

func TestWatcherReportsImageChanges(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	for _, name := range []string{"a.png", "b.jpg", "c.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}

	// The burst collapses into one notification.
	select {
	case <-w.Changed():
		t.Fatal("expected a single notification for one burst")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	for _, name := range []string{"notes.txt", ".hidden.png"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case <-w.Changed():
		t.Fatal("unexpected notification")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseStopsLoop(t *testing.T) {
	w := startWatcher(t, t.TempDir())
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start after Close should fail")
	}
}

func TestWatcherContextCancel(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
	select {
	case <-w.doneCh:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit on cancel")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/x/a.PNG", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/x/a.flac", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/x/a.png", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/x/a.txt", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/x/.a.png", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := relevant(tt.event); got != tt.want {
			t.Fatalf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

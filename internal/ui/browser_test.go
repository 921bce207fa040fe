package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowserSelectionReturnsMessage(t *testing.T) {
	dir := tempTree(t, map[string]string{
		"photos/a.png": "data",
		"notes.txt":    "data",
		"readme.md":    "data",
	})

	m := NewBrowser(dir)
	for range 2 {
		model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
		m = model.(BrowserModel)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected selection command")
	}
	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", cmd())
	}
	if want := filepath.Join(dir, "notes.txt"); selected.Path != want {
		t.Fatalf("expected %s, got %q", want, selected.Path)
	}
}

func TestBrowserListsSources(t *testing.T) {
	dir := tempTree(t, map[string]string{
		"photos/a.png":  "data",
		"gallery.yaml":  "data",
		"picks.m3u":     "data",
		"readme.md":     "data",
		".hidden/a.png": "data",
	})

	m := NewBrowser(dir)
	var names []string
	for _, item := range m.list.Items() {
		if s, ok := item.(sourceItem); ok {
			names = append(names, s.name)
		}
	}
	want := []string{"./", "gallery.yaml", "photos/", "picks.m3u"}
	if len(names) != len(want) {
		t.Fatalf("sources = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sources = %v, want %v", names, want)
		}
	}
}

func TestBrowserURLSelectionReturnsMessage(t *testing.T) {
	m := NewBrowser(t.TempDir())
	m.urlMode = true
	m.input.SetValue("  https://example.com/api  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected URL selection command")
	}
	selected, ok := cmd().(BrowserSelectedMsg)
	if !ok {
		t.Fatalf("expected BrowserSelectedMsg, got %T", cmd())
	}
	if selected.Path != "https://example.com/api" {
		t.Fatalf("expected URL path, got %q", selected.Path)
	}
}

func TestBrowserCancelReturnsMessage(t *testing.T) {
	m := NewBrowser(t.TempDir())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected cancel command")
	}
	if _, ok := cmd().(BrowserCancelledMsg); !ok {
		t.Fatalf("expected BrowserCancelledMsg, got %T", cmd())
	}
}

func TestBrowserMissingDirectory(t *testing.T) {
	m := NewBrowser(filepath.Join(t.TempDir(), "absent"))
	if !m.HasError() {
		t.Fatal("expected error for missing directory")
	}
}

func tempTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

package main

import (
	"bytes"
	"errors"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/olivier-w/climg/internal/config"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigCommandMergesFileAndFlags(t *testing.T) {
	cfgPath := writeConfig(t, "render:\n  fps: 30\n")

	out, err := runRoot(t, "config", "--config", cfgPath, "--cols", "4", "--log-file", "-")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"cols: 4", "fps: 30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInvalidFlagValueRejected(t *testing.T) {
	cfgPath := writeConfig(t, "")

	_, err := runRoot(t, "config", "--config", cfgPath, "--fps", "0", "--log-file", "-")
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := runRoot(t, "config", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "--log-file", "-")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestThumbsRequiresCache(t *testing.T) {
	cfgPath := writeConfig(t, "")

	_, err := runRoot(t, "thumbs", t.TempDir(), "--config", cfgPath, "--no-cache", "--log-file", "-")
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("err = %v, want cache disabled error", err)
	}
}

func TestThumbsWarmsDiskCache(t *testing.T) {
	src := t.TempDir()
	writePNG(t, filepath.Join(src, "a.png"), color.NRGBA{255, 0, 0, 255})
	writePNG(t, filepath.Join(src, "b.png"), color.NRGBA{0, 0, 255, 255})
	cacheDir := t.TempDir()
	cfgPath := writeConfig(t, "texture:\n  cache_dir: "+cacheDir+"\n")

	out, err := runRoot(t, "thumbs", src, "--config", cfgPath, "--log-file", "-")
	if err != nil {
		t.Fatalf("thumbs: %v", err)
	}
	if !strings.Contains(out, "2 thumbnails cached") || !strings.Contains(out, "(0 failed)") {
		t.Fatalf("unexpected output: %q", out)
	}

	var webps int
	err = filepath.WalkDir(cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() && filepath.Ext(path) == ".webp" {
			webps++
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	if webps != 2 {
		t.Fatalf("cache holds %d thumbnails, want 2", webps)
	}
}

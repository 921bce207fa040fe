package catalog

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/olivier-w/climg/internal/gallery"
	"github.com/olivier-w/climg/internal/texture"
)

var listExts = map[string]bool{
	".txt":  true,
	".lst":  true,
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
}

// IsListExt returns true if the extension is a supported list format.
func IsListExt(ext string) bool {
	return listExts[strings.ToLower(ext)]
}

// ParseList parses a list file into references. Relative entries are
// resolved against the list file directory; URLs are kept as they are.
func ParseList(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsListExt(ext) {
		return nil, fmt.Errorf("unsupported list format %s", ext)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading list: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("list is not valid UTF-8")
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	baseDir := filepath.Dir(absPath)
	scanner := bufio.NewScanner(strings.NewReader(text))

	if ext == ".pls" {
		return parsePLS(scanner, baseDir), nil
	}
	return parseLines(scanner, baseDir), nil
}

// parseLines reads one reference per line; '#' starts a comment line, which
// also covers m3u directives.
func parseLines(scanner *bufio.Scanner, baseDir string) []string {
	entries := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, resolveRef(line, baseDir))
	}
	return entries
}

func parsePLS(scanner *bufio.Scanner, baseDir string) []string {
	entries := make([]string, 0)
	for scanner.Scan() {
		key, val, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if val == "" || !isPLSFileKey(key) {
			continue
		}
		entries = append(entries, resolveRef(val, baseDir))
	}
	return entries
}

func isPLSFileKey(key string) bool {
	rest, ok := strings.CutPrefix(key, "File")
	if !ok || rest == "" {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}

// ListSource reads items from a list file.
type ListSource struct {
	Path string
	log  *zap.Logger
}

// NewListSource returns a source over the list file at path.
func NewListSource(path string, log *zap.Logger) *ListSource {
	return &ListSource{Path: path, log: log}
}

func (s *ListSource) Items(context.Context) ([]gallery.Item, error) {
	refs, err := ParseList(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	items := make([]gallery.Item, 0, len(refs))
	for _, ref := range refs {
		if IsURL(ref) {
			items = append(items, itemFromRef(ref))
			continue
		}
		info, err := os.Stat(ref)
		if err != nil || info.IsDir() || !texture.IsSupportedExt(filepath.Ext(ref)) {
			if s.log != nil {
				s.log.Warn("skipping list entry", zap.String("path", ref), zap.Error(err))
			}
			continue
		}
		it := itemFromRef(ref)
		it.Size = info.Size()
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", s.Path, ErrEmptyCatalog)
	}
	return items, nil
}

package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/olivier-w/climg/internal/gallery"
	"github.com/olivier-w/climg/internal/texture"
)

// DirSource lists the supported files directly inside Dir.
type DirSource struct {
	Dir string
	log *zap.Logger
}

// NewDirSource returns a source over dir.
func NewDirSource(dir string, log *zap.Logger) *DirSource {
	return &DirSource{Dir: dir, log: log}
}

func (s *DirSource) Items(ctx context.Context) ([]gallery.Item, error) {
	dir, err := filepath.Abs(s.Dir)
	if err != nil {
		dir = s.Dir
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", dir, err)
	}

	var items []gallery.Item
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !texture.IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		p := filepath.Join(dir, e.Name())
		it := itemFromRef(p)
		if info, err := e.Info(); err == nil {
			it.Size = info.Size()
			it.Year = info.ModTime().Format("2006")
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrEmptyCatalog)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(filepath.Base(items[i].Image)) < strings.ToLower(filepath.Base(items[j].Image))
	})
	if s.log != nil {
		s.log.Debug("scanned directory", zap.String("dir", dir), zap.Int("items", len(items)))
	}
	return items, nil
}

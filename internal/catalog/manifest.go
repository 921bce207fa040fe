package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/olivier-w/climg/internal/gallery"
)

// Manifest is the YAML item list format.
type Manifest struct {
	Items []ManifestItem `yaml:"items"`
}

// ManifestItem is one manifest entry. Only Image is required.
type ManifestItem struct {
	ID     string   `yaml:"id"`
	Title  string   `yaml:"title"`
	Image  string   `yaml:"image"`
	Tags   []string `yaml:"tags"`
	Author string   `yaml:"author"`
	Year   string   `yaml:"year"`
}

// ManifestSource reads items from a YAML manifest.
type ManifestSource struct {
	Path string
}

func (s *ManifestSource) Items(context.Context) ([]gallery.Item, error) {
	absPath, err := filepath.Abs(s.Path)
	if err != nil {
		absPath = s.Path
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: parsing manifest %s: %w", s.Path, err)
	}

	baseDir := filepath.Dir(absPath)
	items := make([]gallery.Item, 0, len(m.Items))
	for i, mi := range m.Items {
		img := strings.TrimSpace(mi.Image)
		if img == "" {
			return nil, fmt.Errorf("catalog: manifest %s: item %d has no image", s.Path, i)
		}
		ref := resolveRef(img, baseDir)
		it := itemFromRef(ref)
		if mi.ID != "" {
			it.ID = mi.ID
		}
		if mi.Title != "" {
			it.Title = mi.Title
		}
		it.Tags = mi.Tags
		it.Author = mi.Author
		it.Year = mi.Year
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", s.Path, ErrEmptyCatalog)
	}
	return items, nil
}

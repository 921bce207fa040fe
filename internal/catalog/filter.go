package catalog

import (
	"sort"
	"strings"

	"github.com/olivier-w/climg/internal/gallery"
)

// FilterByCategory keeps items carrying at least one of cats. An empty
// filter keeps everything. The input slice is not modified.
func FilterByCategory(items []gallery.Item, cats []string) []gallery.Item {
	if len(cats) == 0 {
		return items
	}
	out := make([]gallery.Item, 0, len(items))
	for _, it := range items {
		for _, c := range cats {
			if it.HasTag(c) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// Categories returns the distinct tags of items, sorted case-insensitively.
// The first spelling seen wins.
func Categories(items []gallery.Item) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, it := range items {
		for _, t := range it.Tags {
			t = strings.TrimSpace(t)
			key := strings.ToLower(t)
			if t == "" || seen[key] {
				continue
			}
			seen[key] = true
			cats = append(cats, t)
		}
	}
	sort.Slice(cats, func(i, j int) bool {
		return strings.ToLower(cats[i]) < strings.ToLower(cats[j])
	})
	return cats
}

package gallery

import "strings"

// Item is one entry of the gallery. The engine never mutates items; the same
// finite set is repeated across the virtual grid.
type Item struct {
	ID     string
	Title  string
	Image  string // local path or http(s) URL of the texture source
	Tags   []string
	Author string
	Year   string
	Size   int64 // source size in bytes, 0 when unknown
}

// HasTag reports whether the item carries tag, compared case-insensitively.
func (it Item) HasTag(tag string) bool {
	for _, t := range it.Tags {
		if strings.EqualFold(strings.TrimSpace(t), strings.TrimSpace(tag)) {
			return true
		}
	}
	return false
}

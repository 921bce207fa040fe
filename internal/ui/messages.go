package ui

import (
	"github.com/olivier-w/climg/internal/gallery"
	"github.com/olivier-w/climg/internal/interactions"
	"github.com/olivier-w/climg/internal/texture"
)

// ReloadMsg replaces the gallery contents, e.g. after the watched
// directory changed. Textures must be parallel to Items.
type ReloadMsg struct {
	Items    []gallery.Item
	Textures []texture.Texture
}

type statesLoadedMsg struct {
	states map[string]interactions.State
	err    error
}

type interactionMsg struct {
	itemID   string
	bookmark bool
	on       bool
	err      error
}

type fileSavedMsg struct {
	path string
	err  error
}

// statusClearMsg clears the status text if no newer status replaced it.
type statusClearMsg struct {
	seq int
}

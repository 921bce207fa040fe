package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/climg/internal/gallery"
)

// wheelDelta is the pixel delta reported for one wheel notch.
const wheelDelta = 100

// mouseEvent maps a terminal mouse message to a gallery event in frame
// pixels. Each text cell is rowScale pixels tall; positions use the cell
// centre. Rows at or below galleryRows belong to the status area: presses
// there are ignored and hovering there counts as leaving the gallery.
func mouseEvent(msg tea.MouseMsg, rowScale, galleryRows int, pressed bool) (gallery.Event, bool) {
	x := float64(msg.X) + 0.5
	y := (float64(msg.Y) + 0.5) * float64(rowScale)
	inside := msg.Y < galleryRows

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return gallery.Wheel(-wheelDelta), inside
	case msg.Button == tea.MouseButtonWheelDown:
		return gallery.Wheel(wheelDelta), inside
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return gallery.PointerDown(x, y), inside
	case msg.Action == tea.MouseActionRelease:
		return gallery.PointerUp(x, y), true
	case msg.Action == tea.MouseActionMotion:
		if !inside && !pressed {
			return gallery.PointerLeave(x, y), true
		}
		return gallery.PointerMove(x, y), true
	}
	return gallery.Event{}, false
}

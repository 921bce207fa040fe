package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

const ansiReset = "\x1b[0m"

// overlayLine writes overlay over base starting at display column col. The
// overlay is shifted left to stay inside base.
func overlayLine(base, overlay string, col int) string {
	width := ansi.StringWidth(base)
	ow := ansi.StringWidth(overlay)
	if ow == 0 {
		return base
	}
	if col+ow > width {
		col = width - ow
	}
	if col < 0 {
		col = 0
	}
	left := ansi.Truncate(base, col, "")
	right := ansi.TruncateLeft(base, col+ow, "")
	return left + ansiReset + overlay + ansiReset + right
}

// overlayBlock writes the lines of block over base, top-left at (col, row).
func overlayBlock(base, block string, col, row int) string {
	lines := strings.Split(base, "\n")
	for i, l := range strings.Split(block, "\n") {
		r := row + i
		if r < 0 || r >= len(lines) {
			continue
		}
		lines[r] = overlayLine(lines[r], l, col)
	}
	return strings.Join(lines, "\n")
}

package render

import "strings"

// Terminal turns frames into printable strings. In colour modes each text
// row packs two pixel rows using "▀" with fg = top and bg = bottom; without
// colour each character is one pixel mapped to a brightness glyph.
type Terminal struct {
	mode colorMode
	sb   strings.Builder
}

// NewTerminal uses the colour capabilities advertised by the environment.
func NewTerminal() *Terminal {
	return &Terminal{mode: envColorMode()}
}

// Mode names the active colour mode.
func (t *Terminal) Mode() string {
	return t.mode.String()
}

// RowScale is the number of pixel rows per text row.
func (t *Terminal) RowScale() int {
	if t.mode == colorOff {
		return 1
	}
	return 2
}

// PixelSize returns the frame size that fills cols x rows text cells.
func (t *Terminal) PixelSize(cols, rows int) (int, int) {
	return cols, rows * t.RowScale()
}

// Render converts f into outW x outH text cells, sampling nearest pixels.
func (t *Terminal) Render(f *Frame, outW, outH int) string {
	if f == nil || f.Width <= 0 || f.Height <= 0 || outW <= 0 || outH <= 0 {
		return ""
	}
	t.sb.Reset()
	t.sb.Grow(outW * outH * 24)

	if t.mode == colorOff {
		t.renderASCII(f, outW, outH)
	} else {
		t.renderHalfBlock(f, outW, outH)
	}
	return t.sb.String()
}

func (t *Terminal) renderHalfBlock(f *Frame, outW, outH int) {
	pixelRows := outH * 2
	for row := 0; row < outH; row++ {
		var lastFg, lastBg string
		top := row * 2 * f.Height / pixelRows
		bot := (row*2 + 1) * f.Height / pixelRows
		for col := 0; col < outW; col++ {
			x := col * f.Width / outW
			fg := colorSeq(t.mode, f.At(x, top), false)
			bg := colorSeq(t.mode, f.At(x, bot), true)
			if fg != lastFg {
				t.sb.WriteString(fg)
				lastFg = fg
			}
			if bg != lastBg {
				t.sb.WriteString(bg)
				lastBg = bg
			}
			t.sb.WriteString("▀")
		}
		t.sb.WriteString(ansiReset)
		if row < outH-1 {
			t.sb.WriteByte('\n')
		}
	}
}

func (t *Terminal) renderASCII(f *Frame, outW, outH int) {
	for row := 0; row < outH; row++ {
		y := row * f.Height / outH
		for col := 0; col < outW; col++ {
			x := col * f.Width / outW
			t.sb.WriteByte(brightnessChar(luminance(f.At(x, y))))
		}
		if row < outH-1 {
			t.sb.WriteByte('\n')
		}
	}
}

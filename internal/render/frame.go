package render

// RGB is one opaque pixel.
type RGB struct {
	R, G, B uint8
}

// Frame is a packed RGB24 pixel buffer, row-major, top to bottom.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

func NewFrame(w, h int) *Frame {
	f := &Frame{}
	f.Resize(w, h)
	return f
}

// Resize changes the dimensions, reusing the buffer when it is big enough.
// Pixel contents are unspecified afterwards.
func (f *Frame) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	n := w * h * 3
	if cap(f.Pix) < n {
		f.Pix = make([]byte, n)
	}
	f.Pix = f.Pix[:n]
	f.Width, f.Height = w, h
}

func (f *Frame) Fill(c RGB) {
	for i := 0; i+2 < len(f.Pix); i += 3 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.R, c.G, c.B
	}
}

func (f *Frame) At(x, y int) RGB {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return RGB{}
	}
	off := (y*f.Width + x) * 3
	return RGB{f.Pix[off], f.Pix[off+1], f.Pix[off+2]}
}

func (f *Frame) Set(x, y int, c RGB) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	off := (y*f.Width + x) * 3
	f.Pix[off], f.Pix[off+1], f.Pix[off+2] = c.R, c.G, c.B
}

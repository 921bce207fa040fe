package render

import (
	"image"

	"golang.org/x/image/draw"
)

// ImageFrame scales img to fit inside w x h, preserving its aspect ratio,
// and centres it on bg.
func ImageFrame(img image.Image, w, h int, bg RGB) *Frame {
	f := NewFrame(w, h)
	f.Fill(bg)
	if img == nil || w <= 0 || h <= 0 {
		return f
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return f
	}

	dw, dh := w, b.Dy()*w/b.Dx()
	if dh > h {
		dw, dh = b.Dx()*h/b.Dy(), h
	}
	dw, dh = max(dw, 1), max(dh, 1)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	ox, oy := (w-dw)/2, (h-dh)/2
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			off := dst.PixOffset(x, y)
			p := dst.Pix[off : off+4 : off+4]
			// Premultiplied; composite over bg.
			a := 255 - int(p[3])
			f.Set(ox+x, oy+y, RGB{
				uint8(int(p[0]) + int(bg.R)*a/255),
				uint8(int(p[1]) + int(bg.G)*a/255),
				uint8(int(p[2]) + int(bg.B)*a/255),
			})
		}
	}
	return f
}

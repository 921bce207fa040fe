package render

import (
	"image"
	"math"

	"github.com/olivier-w/climg/internal/gallery"
)

// DefaultCornerRadius is the rounded corner radius as a fraction of a tile.
const DefaultCornerRadius = 0.05

// PlaceholderRGB is drawn for items without a texture.
var PlaceholderRGB = RGB{0x3a, 0x3a, 0x3a}

// Compositor receives the engine's per-frame output and rasterizes it.
// It implements gallery.Renderer.
type Compositor struct {
	Background   RGB
	CornerRadius float64

	offset     gallery.Vec2
	distortion float64
	cells      []gallery.Cell

	scene *Frame
	out   *Frame
}

func NewCompositor() *Compositor {
	return &Compositor{
		CornerRadius: DefaultCornerRadius,
		scene:        &Frame{},
		out:          &Frame{},
	}
}

func (c *Compositor) SubmitTransform(offset gallery.Vec2) { c.offset = offset }
func (c *Compositor) SubmitDistortion(d float64) { c.distortion = d }

// SubmitCells keeps a copy; the engine reuses its slice.
func (c *Compositor) SubmitCells(cells []gallery.Cell) {
	c.cells = append(c.cells[:0], cells...)
}

func (c *Compositor) Offset() gallery.Vec2 { return c.offset }
func (c *Compositor) Distortion() float64 { return c.distortion }
func (c *Compositor) Cells() []gallery.Cell { return c.cells }

// Draw rasterizes the submitted cells into a w x h frame. textures is
// indexed by item index; a nil or missing entry draws the placeholder.
// The returned frame is reused by the next call.
func (c *Compositor) Draw(textures []image.Image, w, h int) *Frame {
	c.scene.Resize(w, h)
	c.scene.Fill(c.Background)

	cam := gallery.NewCamera(float64(w), float64(h))
	if !cam.Valid() {
		return c.scene
	}
	for i := range c.cells {
		cell := c.cells[i]
		var tex image.Image
		if cell.ItemIndex >= 0 && cell.ItemIndex < len(textures) {
			tex = textures[cell.ItemIndex]
		}
		c.drawCell(cam, cell, tex)
	}
	return c.scene
}

// Compose draws the scene and applies the current distortion.
func (c *Compositor) Compose(textures []image.Image, w, h int) *Frame {
	scene := c.Draw(textures, w, h)
	c.out.Resize(w, h)
	Distort(c.out, scene, c.distortion)
	return c.out
}

func (c *Compositor) drawCell(cam gallery.Camera, cell gallery.Cell, tex image.Image) {
	// Scale zooms the texture inside the tile; the tile itself keeps its size.
	scale := cell.Scale
	if scale <= 0 {
		scale = 1
	}
	box := cell
	box.Scale = 1
	r := cam.CellBounds(box, c.offset)
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	f := c.scene
	x0 := max(0, int(math.Floor(r.Left)))
	x1 := min(f.Width, int(math.Ceil(r.Right())))
	y0 := max(0, int(math.Floor(r.Top)))
	y1 := min(f.Height, int(math.Ceil(r.Bottom())))
	if x0 >= x1 || y0 >= y1 {
		return
	}

	s := newSampler(tex)
	opacity := clamp01(cell.Opacity)
	for y := y0; y < y1; y++ {
		v := (float64(y) + 0.5 - r.Top) / r.Height
		if v < 0 || v > 1 {
			continue
		}
		for x := x0; x < x1; x++ {
			u := (float64(x) + 0.5 - r.Left) / r.Width
			if u < 0 || u > 1 {
				continue
			}
			a := cornerAlpha(u, v, c.CornerRadius) * opacity
			if a <= 0 {
				continue
			}
			su := clamp01(0.5 + (u-0.5)/scale)
			sv := clamp01(0.5 + (v-0.5)/scale)
			col, ta := s.sample(su, sv)
			f.Set(x, y, blend(f.At(x, y), col, a*ta))
		}
	}
}

// cornerAlpha masks the rounded corners of a tile in uv space.
func cornerAlpha(u, v, radius float64) float64 {
	if radius <= 0 {
		return 1
	}
	px := math.Abs(u-0.5) * 2
	py := math.Abs(v-0.5) * 2
	cx := math.Max(px-(1-radius*2), 0)
	cy := math.Max(py-(1-radius*2), 0)
	d := math.Hypot(cx, cy)
	return 1 - smoothstep(radius-0.01, radius, d)
}

func blend(dst, src RGB, a float64) RGB {
	if a >= 1 {
		return src
	}
	mix := func(d, s uint8) uint8 {
		return uint8(math.Round(float64(d) + (float64(s)-float64(d))*a))
	}
	return RGB{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B)}
}

// sampler reads a texture with a centred square crop.
type sampler struct {
	img   image.Image
	nrgba *image.NRGBA
	x0    int
	y0    int
	side  int
}

func newSampler(img image.Image) sampler {
	if img == nil {
		return sampler{}
	}
	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	if side <= 0 {
		return sampler{}
	}
	s := sampler{
		img:  img,
		x0:   b.Min.X + (b.Dx()-side)/2,
		y0:   b.Min.Y + (b.Dy()-side)/2,
		side: side,
	}
	s.nrgba, _ = img.(*image.NRGBA)
	return s
}

func (s sampler) sample(u, v float64) (RGB, float64) {
	if s.img == nil {
		return PlaceholderRGB, 1
	}
	x := s.x0 + min(int(u*float64(s.side)), s.side-1)
	y := s.y0 + min(int(v*float64(s.side)), s.side-1)
	if s.nrgba != nil {
		off := s.nrgba.PixOffset(x, y)
		p := s.nrgba.Pix[off : off+4 : off+4]
		return RGB{p[0], p[1], p[2]}, float64(p[3]) / 255
	}
	r, g, b, a := s.img.At(x, y).RGBA()
	if a == 0 {
		return RGB{}, 0
	}
	// Un-premultiply.
	return RGB{
		uint8(r * 0xff / a),
		uint8(g * 0xff / a),
		uint8(b * 0xff / a),
	}, float64(a) / 0xffff
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func smoothstep(e0, e1, x float64) float64 {
	if e0 == e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

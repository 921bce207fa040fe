package gallery

// cameraZ is where the orthographic camera sits, looking down -z.
const cameraZ = 10

// Camera is an orthographic projection with left=-aspect, right=aspect,
// top=1 and bottom=-1.
type Camera struct {
	Width  float64
	Height float64
	Z      float64
}

// NewCamera returns a camera for a viewport in pixels.
func NewCamera(width, height float64) Camera {
	return Camera{Width: width, Height: height, Z: cameraZ}
}

// Valid reports whether the viewport has a usable size.
func (c Camera) Valid() bool {
	return c.Width > 0 && c.Height > 0
}

// Aspect returns width/height, or 0 for a degenerate viewport.
func (c Camera) Aspect() float64 {
	if !c.Valid() {
		return 0
	}
	return c.Width / c.Height
}

// ScreenToNDC maps pixels (y down) to normalized device coordinates (y up).
func (c Camera) ScreenToNDC(p Vec2) Vec2 {
	return Vec2{
		X: p.X/c.Width*2 - 1,
		Y: -(p.Y/c.Height*2 - 1),
	}
}

// NDCToScreen is the inverse of ScreenToNDC.
func (c Camera) NDCToScreen(n Vec2) Vec2 {
	return Vec2{
		X: (n.X + 1) / 2 * c.Width,
		Y: (1 - n.Y) / 2 * c.Height,
	}
}

// Project maps a world point to screen pixels.
func (c Camera) Project(world Vec2) Vec2 {
	return c.NDCToScreen(Vec2{X: world.X / c.Aspect(), Y: world.Y})
}

// Unproject maps screen pixels to the world point on the view plane.
func (c Camera) Unproject(p Vec2) Vec2 {
	n := c.ScreenToNDC(p)
	return Vec2{X: n.X * c.Aspect(), Y: n.Y}
}

// Ray returns the picking ray through an NDC position.
func (c Camera) Ray(ndc Vec2) Ray {
	return Ray{
		Origin: Vec3{X: ndc.X * c.Aspect(), Y: ndc.Y, Z: c.Z},
		Dir:    Vec3{Z: -1},
	}
}

// Rect is a screen rectangle in pixels.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64 { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// CellBounds returns the on-screen box of a cell at the given group offset,
// including its current scale.
func (c Camera) CellBounds(cell Cell, offset Vec2) Rect {
	half := cell.Size * cell.Scale / 2
	center := cell.Center.Add(offset)
	tl := c.Project(Vec2{X: center.X - half, Y: center.Y + half})
	br := c.Project(Vec2{X: center.X + half, Y: center.Y - half})
	return Rect{Left: tl.X, Top: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

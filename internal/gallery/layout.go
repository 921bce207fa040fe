package gallery

// ItemIndex maps a virtual grid position to an item. The same finite set of
// items wraps across the whole grid.
func ItemIndex(row, col, cols, itemCount int) int {
	if itemCount <= 0 || cols <= 0 {
		return -1
	}
	c := col % cols
	if c < 0 {
		c += cols
	}
	i := (row*cols + c) % itemCount
	if i < 0 {
		i += itemCount
	}
	return i
}

// Bounds is the allowed range of the group offset.
type Bounds struct {
	Min Vec2
	Max Vec2
}

func (b Bounds) clamp(v Vec2) (Vec2, bool, bool) {
	x := clamp(v.X, b.Min.X, b.Max.X)
	y := clamp(v.Y, b.Min.Y, b.Max.Y)
	return Vec2{X: x, Y: y}, x != v.X, y != v.Y
}

// Layout is the tiling computed for one viewport aspect ratio.
type Layout struct {
	Aspect    float64
	Panel     float64
	Gap       float64
	Cols      int
	Rows      int
	TotalRows int
	TotalCols int
	ItemCount int

	origin Vec2 // world centre of cell (0, 0)
}

// ComputeLayout sizes panels so Cols of them span 1.2 viewport widths and
// centres the virtual grid on the visible window. An empty item set or a
// degenerate aspect yields an empty layout.
func ComputeLayout(aspect float64, itemCount int, g GridConfig) Layout {
	if aspect <= 0 || itemCount <= 0 || g.Cols <= 0 || g.Rows <= 0 {
		return Layout{}
	}
	totalRows, totalCols := g.TotalRows, g.TotalCols
	if totalRows < g.Rows {
		totalRows = g.Rows
	}
	if totalCols < g.Cols {
		totalCols = g.Cols
	}

	gridWidth := aspect * 2 * 1.2
	panel := gridWidth / float64(g.Cols)
	gap := panel * g.GapRatio
	pitch := panel + gap

	actualWidth := float64(g.Cols)*panel + float64(g.Cols-1)*gap
	actualHeight := float64(g.Rows)*panel + float64(g.Rows-1)*gap
	startX := -actualWidth/2 + panel/2
	startY := actualHeight/2 - panel/2

	colShift := (totalCols - g.Cols) / 2
	rowShift := (totalRows - g.Rows) / 2

	return Layout{
		Aspect:    aspect,
		Panel:     panel,
		Gap:       gap,
		Cols:      g.Cols,
		Rows:      g.Rows,
		TotalRows: totalRows,
		TotalCols: totalCols,
		ItemCount: itemCount,
		origin: Vec2{
			X: startX - float64(colShift)*pitch,
			Y: startY + float64(rowShift)*pitch,
		},
	}
}

// Empty reports whether the layout has no cells.
func (l Layout) Empty() bool {
	return l.ItemCount == 0
}

// Pitch is the distance between neighbouring cell centres.
func (l Layout) Pitch() float64 {
	return l.Panel + l.Gap
}

// CellCenter returns the world centre of a virtual grid position at zero
// offset.
func (l Layout) CellCenter(row, col int) Vec2 {
	p := l.Pitch()
	return Vec2{
		X: l.origin.X + float64(col)*p,
		Y: l.origin.Y - float64(row)*p,
	}
}

// Cells builds the full virtual grid in row-major order.
func (l Layout) Cells() []Cell {
	if l.Empty() {
		return nil
	}
	cells := make([]Cell, 0, l.TotalRows*l.TotalCols)
	for row := 0; row < l.TotalRows; row++ {
		for col := 0; col < l.TotalCols; col++ {
			cells = append(cells, Cell{
				Row:           row,
				Col:           col,
				ItemIndex:     ItemIndex(row, col, l.Cols, l.ItemCount),
				Center:        l.CellCenter(row, col),
				Size:          l.Panel,
				Opacity:       1,
				Scale:         1,
				TargetOpacity: 1,
				TargetScale:   1,
			})
		}
	}
	return cells
}

// Bounds returns the offsets for which the viewport ([-aspect, aspect] by
// [-1, 1]) stays covered by the virtual grid.
func (l Layout) Bounds() Bounds {
	if l.Empty() {
		return Bounds{}
	}
	half := l.Panel / 2
	last := l.CellCenter(l.TotalRows-1, l.TotalCols-1)
	left := l.origin.X - half
	right := last.X + half
	top := l.origin.Y + half
	bottom := last.Y - half

	b := Bounds{
		Min: Vec2{X: l.Aspect - right, Y: 1 - top},
		Max: Vec2{X: -l.Aspect - left, Y: -1 - bottom},
	}
	// A grid narrower than the viewport pins that axis at its centre.
	if b.Min.X > b.Max.X {
		mid := (b.Min.X + b.Max.X) / 2
		b.Min.X, b.Max.X = mid, mid
	}
	if b.Min.Y > b.Max.Y {
		mid := (b.Min.Y + b.Max.Y) / 2
		b.Min.Y, b.Max.Y = mid, mid
	}
	return b
}

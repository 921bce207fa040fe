package gallery

import (
	"math"
	"testing"
)

func TestItemIndexWraparound(t *testing.T) {
	tests := []struct {
		row, col, cols, n int
		want              int
	}{
		{row: 2, col: 7, cols: 6, n: 12, want: 1},
		{row: 0, col: 0, cols: 6, n: 12, want: 0},
		{row: 0, col: 5, cols: 6, n: 12, want: 5},
		{row: 0, col: 6, cols: 6, n: 12, want: 0},
		{row: 1, col: 0, cols: 6, n: 12, want: 6},
		{row: 3, col: 3, cols: 6, n: 5, want: 1},
		{row: 0, col: 0, cols: 6, n: 0, want: -1},
	}
	for _, tt := range tests {
		if got := ItemIndex(tt.row, tt.col, tt.cols, tt.n); got != tt.want {
			t.Fatalf("ItemIndex(%d, %d, %d, %d) = %d, want %d", tt.row, tt.col, tt.cols, tt.n, got, tt.want)
		}
	}
}

func TestComputeLayoutEmpty(t *testing.T) {
	g := DefaultConfig().Grid
	for _, l := range []Layout{
		ComputeLayout(0, 12, g),
		ComputeLayout(-1, 12, g),
		ComputeLayout(1.5, 0, g),
	} {
		if !l.Empty() {
			t.Fatalf("layout %+v should be empty", l)
		}
		if cells := l.Cells(); cells != nil {
			t.Fatalf("empty layout built %d cells", len(cells))
		}
	}
}

func TestComputeLayoutPanelSize(t *testing.T) {
	g := DefaultConfig().Grid
	l := ComputeLayout(1.5, 12, g)

	if want := 1.5 * 2 * 1.2 / 6; math.Abs(l.Panel-want) > 1e-12 {
		t.Fatalf("panel = %v, want %v", l.Panel, want)
	}
	if want := l.Panel * 0.04; math.Abs(l.Gap-want) > 1e-12 {
		t.Fatalf("gap = %v, want %v", l.Gap, want)
	}

	cells := l.Cells()
	if len(cells) != g.TotalRows*g.TotalCols {
		t.Fatalf("cells = %d, want %d", len(cells), g.TotalRows*g.TotalCols)
	}
	for _, c := range cells {
		if c.ItemIndex != ItemIndex(c.Row, c.Col, g.Cols, 12) {
			t.Fatalf("cell (%d,%d) item %d", c.Row, c.Col, c.ItemIndex)
		}
		if c.Opacity != 1 || c.Scale != 1 || c.Highlighted() {
			t.Fatalf("cell (%d,%d) starts with visual state %v/%v", c.Row, c.Col, c.Opacity, c.Scale)
		}
	}
}

func TestComputeLayoutCentresVisibleWindow(t *testing.T) {
	g := DefaultConfig().Grid
	l := ComputeLayout(1.5, 12, g)

	actualWidth := float64(g.Cols)*l.Panel + float64(g.Cols-1)*l.Gap
	actualHeight := float64(g.Rows)*l.Panel + float64(g.Rows-1)*l.Gap
	first := l.CellCenter((g.TotalRows-g.Rows)/2, (g.TotalCols-g.Cols)/2)
	if math.Abs(first.X-(-actualWidth/2+l.Panel/2)) > 1e-9 || math.Abs(first.Y-(actualHeight/2-l.Panel/2)) > 1e-9 {
		t.Fatalf("first visible cell at %+v", first)
	}

	b := l.Bounds()
	if math.Abs(b.Min.X+b.Max.X) > 1e-9 || math.Abs(b.Min.Y+b.Max.Y) > 1e-9 {
		t.Fatalf("bounds not centred: %+v", b)
	}
	if b.Min.X >= 0 || b.Min.Y >= 0 {
		t.Fatalf("bounds leave no room to pan: %+v", b)
	}
}

func TestLayoutBoundsPinNarrowGrid(t *testing.T) {
	g := GridConfig{Cols: 6, Rows: 1, TotalRows: 1, TotalCols: 6}
	l := ComputeLayout(1, 3, g)
	b := l.Bounds()
	if b.Min.Y != b.Max.Y {
		t.Fatalf("short grid should pin y, got %+v", b)
	}
}

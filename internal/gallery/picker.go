package gallery

import "math"

// Ray is a picking ray in world space.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Picker resolves the cell under a ray. It returns -1 on a miss.
type Picker interface {
	Pick(ray Ray, cells []Cell, offset Vec2) int
}

// GridPicker intersects the ray with each cell's plane and tests the hit
// against the cell's unscaled square. The nearest hit wins; equal distances
// go to the lower index.
type GridPicker struct{}

func (GridPicker) Pick(ray Ray, cells []Cell, offset Vec2) int {
	if ray.Dir.Z == 0 {
		return -1
	}
	best := -1
	bestT := math.Inf(1)
	for i := range cells {
		c := &cells[i]
		t := (c.Z - ray.Origin.Z) / ray.Dir.Z
		if t < 0 || t >= bestT {
			continue
		}
		hx := ray.Origin.X + ray.Dir.X*t
		hy := ray.Origin.Y + ray.Dir.Y*t
		half := c.Size / 2
		if math.Abs(hx-(c.Center.X+offset.X)) > half || math.Abs(hy-(c.Center.Y+offset.Y)) > half {
			continue
		}
		best, bestT = i, t
	}
	return best
}

package gallery

// Cell is one tile of the virtual grid. Only the visual fields change after
// the layout creates it.
type Cell struct {
	Row       int
	Col       int
	ItemIndex int
	Center    Vec2    // world position before the group offset
	Size      float64 // edge length in world units
	Z         float64

	Opacity       float64
	Scale         float64
	TargetOpacity float64
	TargetScale   float64
}

// Highlighted reports whether the cell's target is the hover pair.
func (c *Cell) Highlighted() bool {
	return c.TargetOpacity != 1 || c.TargetScale != 1
}

func (c *Cell) highlight(cfg *Config) {
	c.TargetOpacity = cfg.HighlightOpacity
	c.TargetScale = cfg.HighlightScale
}

func (c *Cell) resetTarget() {
	c.TargetOpacity = 1
	c.TargetScale = 1
}

// ease nudges the visual state toward its target.
func (c *Cell) ease(t float64) {
	c.Opacity = lerp(c.Opacity, c.TargetOpacity, t)
	c.Scale = lerp(c.Scale, c.TargetScale, t)
}

package gallery

// Motion is the continuous state advanced once per frame.
type Motion struct {
	Offset           Vec2
	TargetOffset     Vec2
	Velocity         Vec2
	Distortion       float64
	TargetDistortion float64
}

// StepInput carries the interaction flags the motion step depends on.
type StepInput struct {
	Dragging    bool
	WheelActive bool
	Bounds      Bounds
}

// Step advances m and the cell visuals by one fixed tick. It uses no wall
// clock, so identical inputs produce identical trajectories.
func (m *Motion) Step(cells []Cell, in StepInput, cfg *Config) {
	if !in.Dragging {
		m.TargetOffset = m.TargetOffset.Add(m.Velocity)
		m.Velocity = m.Velocity.Scale(cfg.Friction)
		if !in.WheelActive {
			m.TargetDistortion = idleDistortion(m.Velocity.Len(), cfg)
		}
	}

	var clampedX, clampedY bool
	m.TargetOffset, clampedX, clampedY = in.Bounds.clamp(m.TargetOffset)
	if clampedX {
		m.Velocity.X = 0
	}
	if clampedY {
		m.Velocity.Y = 0
	}

	m.Offset = m.Offset.Lerp(m.TargetOffset, cfg.Lerp)
	m.Distortion = lerp(m.Distortion, m.TargetDistortion, cfg.DistortionLerp)

	for i := range cells {
		cells[i].ease(cfg.CellLerp)
	}
}

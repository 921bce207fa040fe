package gallery

import "math"

// dragDistortion is the distortion target while a drag is in progress.
func dragDistortion(v Vec2, cfg *Config) float64 {
	return math.Min(v.Len()*cfg.DragDistortionFactor, cfg.MaxDistortion)
}

// wheelDistortion is the distortion target for one wheel event.
func wheelDistortion(dy float64, cfg *Config) float64 {
	return math.Min(math.Abs(dy)*cfg.WheelDistortionFactor, cfg.MaxDistortion)
}

// idleDistortion is the distortion target while coasting on inertia. Speeds
// below the epsilon snap to zero.
func idleDistortion(speed float64, cfg *Config) float64 {
	if speed <= cfg.VelocityEpsilon {
		return 0
	}
	return math.Min(speed*cfg.DistortionFactor, cfg.MaxDistortion)
}

// submitDistortion forwards d to the renderer, held inside [0, max].
func submitDistortion(r Renderer, d float64, cfg *Config) float64 {
	d = clamp(d, 0, cfg.MaxDistortion)
	r.SubmitDistortion(d)
	return d
}

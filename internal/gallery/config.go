package gallery

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid gallery config")

// GridConfig sizes the visible window and the virtual grid behind it.
type GridConfig struct {
	Cols      int     // columns across the visible window
	Rows      int     // rows in the visible window
	TotalRows int     // rows of the virtual grid
	TotalCols int     // columns of the virtual grid
	GapRatio  float64 // gap as a fraction of the panel size
}

// Config holds the tuning constants of the interaction core.
type Config struct {
	Grid GridConfig

	DragThreshold   float64 // pixels before a press becomes a drag
	DragSensitivity float64
	SwipeRatio      float64 // fraction of viewport width for a swipe
	Friction        float64 // per-tick velocity decay
	Lerp            float64 // offset smoothing
	CellLerp        float64 // per-cell opacity/scale smoothing
	DistortionLerp  float64
	VelocityEpsilon float64 // idle speed below which distortion snaps to zero

	HoverThrottle time.Duration
	WheelSpeed    float64
	WheelTimeout  time.Duration

	MaxDistortion         float64
	DistortionFactor      float64 // idle inertia
	DragDistortionFactor  float64
	WheelDistortionFactor float64

	HighlightOpacity float64
	HighlightScale   float64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{
			Cols:      6,
			Rows:      8,
			// larger than any viewport at the smallest cell size
			TotalRows: 40,
			TotalCols: 40,
			GapRatio:  0.04,
		},
		DragThreshold:   5,
		DragSensitivity: 2,
		SwipeRatio:      0.2,
		Friction:        0.95,
		Lerp:            0.15,
		CellLerp:        0.15,
		DistortionLerp:  0.1,
		VelocityEpsilon: 0.001,

		HoverThrottle: 16 * time.Millisecond,
		WheelSpeed:    0.001,
		WheelTimeout:  500 * time.Millisecond,

		MaxDistortion:         0.5,
		DistortionFactor:      6,
		DragDistortionFactor:  10,
		WheelDistortionFactor: 0.003,

		HighlightOpacity: 0.7,
		HighlightScale:   1.1,
	}
}

// Validate rejects values that would break convergence or the layout.
func (c Config) Validate() error {
	g := c.Grid
	switch {
	case g.Cols <= 0 || g.Rows <= 0:
		return fmt.Errorf("grid %dx%d: %w", g.Cols, g.Rows, ErrInvalidConfig)
	case g.TotalCols < g.Cols || g.TotalRows < g.Rows:
		return fmt.Errorf("virtual grid %dx%d smaller than visible %dx%d: %w",
			g.TotalCols, g.TotalRows, g.Cols, g.Rows, ErrInvalidConfig)
	case g.GapRatio < 0:
		return fmt.Errorf("gap ratio %v: %w", g.GapRatio, ErrInvalidConfig)
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"lerp", c.Lerp},
		{"cell lerp", c.CellLerp},
		{"distortion lerp", c.DistortionLerp},
	} {
		if f.v <= 0 || f.v > 1 {
			return fmt.Errorf("%s %v outside (0,1]: %w", f.name, f.v, ErrInvalidConfig)
		}
	}
	if c.Friction < 0 || c.Friction >= 1 {
		return fmt.Errorf("friction %v outside [0,1): %w", c.Friction, ErrInvalidConfig)
	}
	if c.DragThreshold < 0 || c.MaxDistortion < 0 || c.SwipeRatio < 0 {
		return fmt.Errorf("negative threshold: %w", ErrInvalidConfig)
	}
	if c.HoverThrottle < 0 || c.WheelTimeout < 0 {
		return fmt.Errorf("negative duration: %w", ErrInvalidConfig)
	}
	return nil
}

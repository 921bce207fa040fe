package ui

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Open/close spring of the detail view, as stiffness and damping of a unit
// mass.
const (
	springStiffness = 300
	springDamping   = 30
)

// modalSpring animates the detail view between closed (0) and open (1).
type modalSpring struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

func newModalSpring(fps int) modalSpring {
	freq := math.Sqrt(springStiffness)
	return modalSpring{
		spring: harmonica.NewSpring(harmonica.FPS(fps), freq, springDamping/(2*freq)),
	}
}

func (s *modalSpring) step() float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if s.settled() {
		s.pos, s.vel = s.target, 0
	}
	return s.pos
}

func (s *modalSpring) settled() bool {
	return math.Abs(s.pos-s.target) < 0.001 && math.Abs(s.vel) < 0.001
}

// progress is the open fraction clamped to [0,1]; the spring may overshoot.
func (s *modalSpring) progress() float64 {
	return math.Max(0, math.Min(1, s.pos))
}

// modalState is the detail view. item indexes the mounted items.
type modalState struct {
	open   bool
	item   int
	spring modalSpring
}

// visible reports whether any part of the view is on screen, including
// while it animates closed.
func (m *modalState) visible() bool {
	return m.open || m.spring.progress() > 0.01
}

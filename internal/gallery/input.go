package gallery

import (
	"math"

	"go.uber.org/zap"
)

// Direction is the axis a drag is locked to.
type Direction int

const (
	DirectionUnset Direction = iota
	DirectionHorizontal
	DirectionVertical
)

func (d Direction) String() string {
	switch d {
	case DirectionHorizontal:
		return "horizontal"
	case DirectionVertical:
		return "vertical"
	default:
		return "unset"
	}
}

// Gesture is the state of the pointer while it is held down. The zero value
// means no pointer is down.
type Gesture struct {
	Dragging  bool
	Start     Vec2
	Last      Vec2
	HasMoved  bool
	Direction Direction
}

func (e *Engine) pointerDown(p Vec2) {
	e.gesture = Gesture{Dragging: true, Start: p, Last: p}
	e.motion.Velocity = Vec2{}
	e.hover.cancel()
	e.clearHover()
	e.setCursor(CursorGrabbing)
}

func (e *Engine) pointerMove(p Vec2) {
	g := &e.gesture
	if !g.Dragging {
		if !e.hoverSuppressed() {
			e.hover.call(p)
		}
		return
	}

	total := p.Sub(g.Start)
	if total.Len() > e.cfg.DragThreshold {
		g.HasMoved = true
		if g.Direction == DirectionUnset {
			if math.Abs(total.X) > math.Abs(total.Y) {
				g.Direction = DirectionHorizontal
			} else {
				g.Direction = DirectionVertical
			}
		}
	}

	d := p.Sub(g.Last)
	g.Last = p

	switch g.Direction {
	case DirectionHorizontal:
		dx := d.X / e.camera.Width * e.cfg.DragSensitivity
		e.motion.TargetOffset.X += dx
		e.motion.Velocity.X = dx
	case DirectionVertical:
		// same sign as the wheel: dragging down pushes the grid up
		dy := d.Y / e.camera.Height * e.cfg.DragSensitivity
		e.motion.TargetOffset.Y += dy
		e.motion.Velocity.Y = dy
	default:
		return
	}
	e.motion.TargetDistortion = dragDistortion(e.motion.Velocity, &e.cfg)
}

// pointerUp ends the gesture. Leave is treated the same way.
func (e *Engine) pointerUp(p Vec2) {
	g := e.gesture
	if !g.Dragging {
		return
	}
	e.gesture = Gesture{}
	e.motion.TargetDistortion = 0
	e.setCursor(CursorGrab)

	if g.HasMoved && g.Direction == DirectionHorizontal {
		dx := p.X - g.Start.X
		if math.Abs(dx) > e.camera.Width*e.cfg.SwipeRatio {
			dir := SwipeRight
			if dx < 0 {
				dir = SwipeLeft
			}
			e.log.Debug("swipe", zap.Stringer("direction", dir), zap.Float64("dx", dx))
			if e.onSwipe != nil {
				e.onSwipe(dir)
			}
		}
	}

	if g.HasMoved || p.Sub(g.Start).Len() > e.cfg.DragThreshold {
		return
	}
	idx := e.pick(p)
	if idx < 0 {
		return
	}
	item := e.items[e.cells[idx].ItemIndex]
	e.log.Debug("item click", zap.String("id", item.ID), zap.Int("cell", idx))
	if e.onClick != nil {
		e.onClick(item)
	}
}

func (e *Engine) wheel(dy float64) {
	e.motion.TargetOffset.Y += dy * e.cfg.WheelSpeed
	e.motion.TargetDistortion = wheelDistortion(dy, &e.cfg)

	e.hover.cancel()
	e.clearHover()

	if e.wheelTimer != 0 {
		e.host.Cancel(e.wheelTimer)
	}
	e.wheelTimer = e.host.AfterFunc(e.cfg.WheelTimeout, func() {
		e.wheelTimer = 0
		e.motion.TargetDistortion = 0
	})
}

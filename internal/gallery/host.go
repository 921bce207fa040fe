package gallery

import "time"

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Clock reports the host time used by the hover throttle.
type Clock interface {
	Now() time.Time
}

// Scheduler runs deferred work on the same goroutine that delivers events.
type Scheduler interface {
	// RequestFrame schedules fn for the next animation frame.
	RequestFrame(fn func(now time.Time)) Handle
	// AfterFunc schedules fn once after d.
	AfterFunc(d time.Duration, fn func()) Handle
	// Cancel drops a pending callback. Cancelling a fired or unknown handle
	// is a no-op.
	Cancel(h Handle)
}

// Events delivers raw input. The returned func removes the subscription.
type Events interface {
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Host is everything the engine needs from its environment.
type Host interface {
	Clock
	Scheduler
	Events
	Viewport() (width, height float64)
}

// Renderer receives the per-frame output of the engine.
type Renderer interface {
	SubmitTransform(offset Vec2)
	SubmitDistortion(d float64)
	SubmitCells(cells []Cell)
}

type nopRenderer struct{}

func (nopRenderer) SubmitTransform(Vec2) {}
func (nopRenderer) SubmitDistortion(float64) {}
func (nopRenderer) SubmitCells([]Cell) {}

package gallery

import (
	"sort"
	"time"
)

// ManualHost is a deterministic Host. Time moves only through Advance and
// frames run only through Frame or Step.
type ManualHost struct {
	// FrameInterval is how far Step advances the clock per frame.
	FrameInterval time.Duration

	now    time.Time
	width  float64
	height float64

	next   Handle
	frames []manualFrame
	timers []manualTimer
	subs   []manualSub

	FrameRequests int
	Cancels       int
}

type manualFrame struct {
	id Handle
	fn func(time.Time)
}

type manualTimer struct {
	id Handle
	at time.Time
	fn func()
}

type manualSub struct {
	id Handle
	fn func(Event)
}

// NewManualHost returns a host with the given viewport and the clock at the
// Unix epoch.
func NewManualHost(width, height float64) *ManualHost {
	return &ManualHost{
		FrameInterval: 16 * time.Millisecond,
		now:           time.Unix(0, 0),
		width:         width,
		height:        height,
	}
}

func (h *ManualHost) Now() time.Time { return h.now }

func (h *ManualHost) Viewport() (float64, float64) { return h.width, h.height }

func (h *ManualHost) RequestFrame(fn func(time.Time)) Handle {
	h.next++
	h.FrameRequests++
	h.frames = append(h.frames, manualFrame{id: h.next, fn: fn})
	return h.next
}

func (h *ManualHost) AfterFunc(d time.Duration, fn func()) Handle {
	h.next++
	h.timers = append(h.timers, manualTimer{id: h.next, at: h.now.Add(d), fn: fn})
	return h.next
}

func (h *ManualHost) Cancel(id Handle) {
	for i, f := range h.frames {
		if f.id == id {
			h.frames = append(h.frames[:i], h.frames[i+1:]...)
			h.Cancels++
			return
		}
	}
	for i, t := range h.timers {
		if t.id == id {
			h.timers = append(h.timers[:i], h.timers[i+1:]...)
			h.Cancels++
			return
		}
	}
}

func (h *ManualHost) Subscribe(fn func(Event)) func() {
	h.next++
	id := h.next
	h.subs = append(h.subs, manualSub{id: id, fn: fn})
	return func() {
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers ev to every subscriber in subscription order. A resize
// updates the viewport first.
func (h *ManualHost) Emit(ev Event) {
	if ev.Kind == EventResize {
		h.width, h.height = ev.Width, ev.Height
	}
	subs := append([]manualSub(nil), h.subs...)
	for _, s := range subs {
		s.fn(ev)
	}
}

// Resize changes the viewport and notifies subscribers.
func (h *ManualHost) Resize(width, height float64) {
	h.Emit(Resize(width, height))
}

// Advance moves the clock by d, firing due timers in deadline order.
func (h *ManualHost) Advance(d time.Duration) {
	end := h.now.Add(d)
	for {
		sort.SliceStable(h.timers, func(i, j int) bool {
			return h.timers[i].at.Before(h.timers[j].at)
		})
		if len(h.timers) == 0 || h.timers[0].at.After(end) {
			break
		}
		t := h.timers[0]
		h.timers = h.timers[1:]
		h.now = t.at
		t.fn()
	}
	h.now = end
}

// Frame runs the frame callbacks that were pending when it was called and
// returns how many ran.
func (h *ManualHost) Frame() int {
	pending := h.frames
	h.frames = nil
	for _, f := range pending {
		f.fn(h.now)
	}
	return len(pending)
}

// Step advances one frame interval and runs a frame, n times.
func (h *ManualHost) Step(n int) {
	for i := 0; i < n; i++ {
		h.Advance(h.FrameInterval)
		h.Frame()
	}
}

func (h *ManualHost) PendingFrames() int { return len(h.frames) }

func (h *ManualHost) PendingTimers() int { return len(h.timers) }

func (h *ManualHost) Subscribers() int { return len(h.subs) }

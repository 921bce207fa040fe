package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/climg/internal/gallery"
)

// frameMsg and timerMsg carry the handle they were scheduled under. A
// handle that was cancelled before delivery is dropped.
type frameMsg struct {
	id   gallery.Handle
	time time.Time
}

type timerMsg struct {
	id gallery.Handle
}

// teaHost adapts the bubbletea loop to gallery.Host. Scheduling only records
// work; the model drains the resulting commands after every update so that
// all engine callbacks run inside Update.
type teaHost struct {
	now           func() time.Time
	frameInterval time.Duration
	width         float64
	height        float64

	next    gallery.Handle
	frames  map[gallery.Handle]func(time.Time)
	timers  map[gallery.Handle]func()
	subs    []subscriber
	nextSub int
	pending []tea.Cmd
}

type subscriber struct {
	id int
	fn func(gallery.Event)
}

func newTeaHost(frameInterval time.Duration) *teaHost {
	return &teaHost{
		now:           time.Now,
		frameInterval: frameInterval,
		frames:        make(map[gallery.Handle]func(time.Time)),
		timers:        make(map[gallery.Handle]func()),
	}
}

func (h *teaHost) Now() time.Time { return h.now() }

func (h *teaHost) Viewport() (float64, float64) { return h.width, h.height }

func (h *teaHost) RequestFrame(fn func(time.Time)) gallery.Handle {
	h.next++
	id := h.next
	h.frames[id] = fn
	h.pending = append(h.pending, tea.Tick(h.frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{id: id, time: t}
	}))
	return id
}

func (h *teaHost) AfterFunc(d time.Duration, fn func()) gallery.Handle {
	h.next++
	id := h.next
	h.timers[id] = fn
	h.pending = append(h.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return id
}

func (h *teaHost) Cancel(id gallery.Handle) {
	delete(h.frames, id)
	delete(h.timers, id)
}

func (h *teaHost) Subscribe(fn func(gallery.Event)) func() {
	id := h.nextSub
	h.nextSub++
	h.subs = append(h.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range h.subs {
			if s.id == id {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				return
			}
		}
	}
}

// emit delivers ev to every subscriber. A resize also updates the viewport.
func (h *teaHost) emit(ev gallery.Event) {
	if ev.Kind == gallery.EventResize {
		h.width, h.height = ev.Width, ev.Height
	}
	for _, s := range append([]subscriber(nil), h.subs...) {
		s.fn(ev)
	}
}

// deliver runs the callback for a frame or timer message. It reports
// whether msg belonged to the host.
func (h *teaHost) deliver(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case frameMsg:
		if fn, ok := h.frames[msg.id]; ok {
			delete(h.frames, msg.id)
			fn(msg.time)
		}
		return true
	case timerMsg:
		if fn, ok := h.timers[msg.id]; ok {
			delete(h.timers, msg.id)
			fn()
		}
		return true
	}
	return false
}

// drain returns the commands scheduled since the last drain.
func (h *teaHost) drain() tea.Cmd {
	if len(h.pending) == 0 {
		return nil
	}
	cmds := h.pending
	h.pending = nil
	return tea.Batch(cmds...)
}

func (h *teaHost) pendingFrames() int { return len(h.frames) }

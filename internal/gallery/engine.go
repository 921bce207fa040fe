package gallery

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrAlreadyMounted is returned by Mount on an engine that is mounted.
var ErrAlreadyMounted = errors.New("gallery: engine already mounted")

// Option configures an Engine.
type Option func(*Engine)

// WithRenderer sets the frame output. The default discards frames.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithPicker replaces the default GridPicker.
func WithPicker(p Picker) Option {
	return func(e *Engine) { e.picker = p }
}

// WithLogger sets the engine logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// OnHoverChange is called with the hovered item index, or with (-1, false)
// when hover clears. It fires only when the hovered item changes.
func OnHoverChange(fn func(item int, hovered bool)) Option {
	return func(e *Engine) { e.onHover = fn }
}

// OnItemClick is called once per click that did not become a drag.
func OnItemClick(fn func(Item)) Option {
	return func(e *Engine) { e.onClick = fn }
}

// OnSwipe is called when a horizontal drag ends past the swipe distance.
func OnSwipe(fn func(SwipeDirection)) Option {
	return func(e *Engine) { e.onSwipe = fn }
}

// OnCursor is called when the cursor affordance changes.
func OnCursor(fn func(Cursor)) Option {
	return func(e *Engine) { e.onCursor = fn }
}

// Engine drives the gallery from host events and animation frames. All of
// its methods and callbacks run on the host's event goroutine.
type Engine struct {
	items    []Item
	cfg      Config
	log      *zap.Logger
	renderer Renderer
	picker   Picker

	onHover  func(int, bool)
	onClick  func(Item)
	onSwipe  func(SwipeDirection)
	onCursor func(Cursor)

	host   Host
	unsub  func()
	camera Camera
	layout Layout
	bounds Bounds
	cells  []Cell

	motion    Motion
	gesture   Gesture
	hovered   int // cell index, -1 when none
	hoverRect Rect
	cursor    Cursor
	modalOpen bool

	frame      Handle
	wheelTimer Handle
	hover      *throttle
	frames     uint64
}

// New returns an unmounted engine over items.
func New(items []Item, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		items:    items,
		cfg:      cfg,
		log:      zap.NewNop(),
		renderer: nopRenderer{},
		picker:   GridPicker{},
		hovered:  -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Mount attaches the engine to host and starts the frame loop. A degenerate
// viewport or an empty item set leaves the engine idle until a resize.
func (e *Engine) Mount(host Host) error {
	if e.host != nil {
		return ErrAlreadyMounted
	}
	e.host = host
	e.motion = Motion{}
	e.gesture = Gesture{}
	e.hovered = -1
	e.hover = newThrottle(host, host, e.cfg.HoverThrottle, e.resolveHover)
	e.unsub = host.Subscribe(e.handle)
	e.setCursor(CursorGrab)

	w, h := host.Viewport()
	e.relayout(w, h)
	e.log.Debug("gallery mounted",
		zap.Int("items", len(e.items)),
		zap.Float64("width", w),
		zap.Float64("height", h),
		zap.Int("cells", len(e.cells)))
	return nil
}

// Unmount cancels every pending callback, removes the subscription and
// drops the cells. It is safe to call more than once.
func (e *Engine) Unmount() {
	if e.host == nil {
		return
	}
	if e.frame != 0 {
		e.host.Cancel(e.frame)
		e.frame = 0
	}
	if e.wheelTimer != 0 {
		e.host.Cancel(e.wheelTimer)
		e.wheelTimer = 0
	}
	e.hover.cancel()
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	e.cells = nil
	e.layout = Layout{}
	e.bounds = Bounds{}
	e.gesture = Gesture{}
	e.hovered = -1
	e.hoverRect = Rect{}
	e.host = nil
	e.log.Debug("gallery unmounted", zap.Uint64("frames", e.frames))
}

// Mounted reports whether the engine is attached to a host.
func (e *Engine) Mounted() bool {
	return e.host != nil
}

// SetModalOpen pauses hover picking while a detail view is shown.
func (e *Engine) SetModalOpen(open bool) {
	e.modalOpen = open
	if open && e.host != nil {
		e.hover.cancel()
		e.clearHover()
		e.setCursor(CursorGrab)
	}
}

func (e *Engine) active() bool {
	return e.host != nil && len(e.cells) > 0
}

func (e *Engine) handle(ev Event) {
	if e.host == nil {
		return
	}
	if ev.Kind == EventResize {
		e.relayout(ev.Width, ev.Height)
		return
	}
	if !e.active() {
		return
	}
	switch ev.Kind {
	case EventPointerDown:
		e.pointerDown(ev.Point())
	case EventPointerMove:
		e.pointerMove(ev.Point())
	case EventPointerUp, EventPointerLeave:
		e.pointerUp(ev.Point())
	case EventWheel:
		e.wheel(ev.DeltaY)
	}
}

// relayout rebuilds the cells for a new viewport. Motion survives, clamped
// to the new bounds.
func (e *Engine) relayout(w, h float64) {
	e.clearHover()
	e.camera = NewCamera(w, h)
	e.layout = ComputeLayout(e.camera.Aspect(), len(e.items), e.cfg.Grid)
	e.cells = e.layout.Cells()
	e.bounds = e.layout.Bounds()

	if !e.active() {
		e.gesture = Gesture{}
		if e.frame != 0 {
			e.host.Cancel(e.frame)
			e.frame = 0
		}
		return
	}
	e.motion.TargetOffset, _, _ = e.bounds.clamp(e.motion.TargetOffset)
	e.motion.Offset, _, _ = e.bounds.clamp(e.motion.Offset)
	e.requestFrame()
}

func (e *Engine) requestFrame() {
	if e.frame == 0 {
		e.frame = e.host.RequestFrame(e.tick)
	}
}

// tick is one animation frame: integrate, follow the hovered cell, submit,
// then schedule the next frame.
func (e *Engine) tick(time.Time) {
	e.frame = 0
	if !e.active() {
		return
	}
	e.motion.Step(e.cells, StepInput{
		Dragging:    e.gesture.Dragging,
		WheelActive: e.wheelTimer != 0,
		Bounds:      e.bounds,
	}, &e.cfg)
	e.refreshHoverBounds()

	e.renderer.SubmitTransform(e.motion.Offset)
	submitDistortion(e.renderer, e.motion.Distortion, &e.cfg)
	e.renderer.SubmitCells(e.cells)

	e.frames++
	e.requestFrame()
}

func (e *Engine) setCursor(c Cursor) {
	if e.cursor == c {
		return
	}
	e.cursor = c
	if e.onCursor != nil {
		e.onCursor(c)
	}
}

// Items returns the items the engine was built with.
func (e *Engine) Items() []Item {
	return e.items
}

// Config returns the engine tuning.
func (e *Engine) Config() Config {
	return e.cfg
}

// Camera returns the projection for the current viewport.
func (e *Engine) Camera() Camera {
	return e.camera
}

// Layout returns the current tiling.
func (e *Engine) Layout() Layout {
	return e.layout
}

// Cells returns a copy of the current cells.
func (e *Engine) Cells() []Cell {
	return append([]Cell(nil), e.cells...)
}

// Hovered returns the hovered item, if any.
func (e *Engine) Hovered() (Item, int, bool) {
	i := e.hoveredItem()
	if i < 0 {
		return Item{}, -1, false
	}
	return e.items[i], i, true
}

// HoverBounds returns the screen box of the hovered cell.
func (e *Engine) HoverBounds() (Rect, bool) {
	if e.hovered < 0 {
		return Rect{}, false
	}
	return e.hoverRect, true
}

// Snapshot is a copy of the engine's interaction state.
type Snapshot struct {
	Motion      Motion
	Gesture     Gesture
	HoveredCell int
	HoveredItem int
	HoverBounds Rect
	Cursor      Cursor
	ModalOpen   bool
	WheelActive bool
	Frames      uint64
}

// Snapshot returns the current interaction state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Motion:      e.motion,
		Gesture:     e.gesture,
		HoveredCell: e.hovered,
		HoveredItem: e.hoveredItem(),
		HoverBounds: e.hoverRect,
		Cursor:      e.cursor,
		ModalOpen:   e.modalOpen,
		WheelActive: e.wheelTimer != 0,
		Frames:      e.frames,
	}
}

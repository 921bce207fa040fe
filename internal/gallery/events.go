package gallery

// EventKind identifies a host event.
type EventKind int

const (
	EventPointerDown EventKind = iota
	EventPointerMove
	EventPointerUp
	EventPointerLeave
	EventWheel
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventPointerDown:
		return "pointerdown"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	case EventPointerLeave:
		return "pointerleave"
	case EventWheel:
		return "wheel"
	case EventResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Event is a raw input event in screen pixels (y down). Only the fields that
// belong to Kind are meaningful.
type Event struct {
	Kind   EventKind
	X, Y   float64 // pointer position
	DeltaY float64 // wheel
	Width  float64 // resize
	Height float64 // resize
}

func PointerDown(x, y float64) Event { return Event{Kind: EventPointerDown, X: x, Y: y} }
func PointerMove(x, y float64) Event { return Event{Kind: EventPointerMove, X: x, Y: y} }
func PointerUp(x, y float64) Event { return Event{Kind: EventPointerUp, X: x, Y: y} }
func PointerLeave(x, y float64) Event { return Event{Kind: EventPointerLeave, X: x, Y: y} }
func Wheel(dy float64) Event { return Event{Kind: EventWheel, DeltaY: dy} }
func Resize(w, h float64) Event { return Event{Kind: EventResize, Width: w, Height: h} }

// Point returns the pointer position of the event.
func (e Event) Point() Vec2 { return Vec2{X: e.X, Y: e.Y} }

// Cursor is the pointer affordance the host should show.
type Cursor string

const (
	CursorGrab     Cursor = "grab"
	CursorGrabbing Cursor = "grabbing"
	CursorPointer  Cursor = "pointer"
)

// SwipeDirection is the sign of a horizontal swipe.
type SwipeDirection int

const (
	SwipeLeft SwipeDirection = iota - 1
	_
	SwipeRight
)

func (d SwipeDirection) String() string {
	if d == SwipeLeft {
		return "left"
	}
	return "right"
}

package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/climg/internal/gallery"
	"github.com/olivier-w/climg/internal/interactions"
	"github.com/olivier-w/climg/internal/texture"
)

func testItems(n int) ([]gallery.Item, []texture.Texture) {
	items := make([]gallery.Item, n)
	textures := make([]texture.Texture, n)
	for i := range items {
		tag := "even"
		if i%2 == 1 {
			tag = "odd"
		}
		items[i] = gallery.Item{
			ID:    fmt.Sprintf("id-%d", i),
			Title: fmt.Sprintf("Item %d", i),
			Tags:  []string{tag},
		}
		textures[i] = texture.Texture{Image: texture.Placeholder(8), Placeholder: true}
	}
	return items, textures
}

func newTestGallery(t *testing.T, opts Options) GalleryModel {
	t.Helper()
	items, textures := testItems(10)
	opts.Config = gallery.DefaultConfig()
	m, err := NewGallery(items, textures, opts)
	if err != nil {
		t.Fatalf("NewGallery: %v", err)
	}
	m, _ = m.handleMsg(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// centreCellPoint returns the text cell over the middle of the cell closest
// to the viewport centre.
func centreCellPoint(t *testing.T, m GalleryModel) (int, int) {
	t.Helper()
	cam := m.engine.Camera()
	best, bestDist := gallery.Vec2{}, math.Inf(1)
	for _, c := range m.engine.Cells() {
		p := cam.Project(c.Center)
		d := math.Hypot(p.X-cam.Width/2, p.Y-cam.Height/2)
		if d < bestDist {
			best, bestDist = p, d
		}
	}
	if math.IsInf(bestDist, 1) {
		t.Fatal("no cells laid out")
	}
	return int(best.X), int(best.Y / float64(m.term.RowScale()))
}

func click(m GalleryModel, x, y int) GalleryModel {
	m, _ = m.handleMsg(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = m.handleMsg(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGalleryResizeLaysOutCells(t *testing.T) {
	m := newTestGallery(t, Options{})
	if len(m.engine.Cells()) == 0 {
		t.Fatal("expected cells after resize")
	}
	w, h := m.host.Viewport()
	if w != 80 || h != float64(22*m.term.RowScale()) {
		t.Fatalf("viewport = %vx%v", w, h)
	}
	if m.host.pendingFrames() != 1 {
		t.Fatalf("pending frames = %d, want 1", m.host.pendingFrames())
	}
}

func TestGalleryClickOpensModal(t *testing.T) {
	m := newTestGallery(t, Options{})
	x, y := centreCellPoint(t, m)

	m = click(m, x, y)
	if !m.modal.open {
		t.Fatal("expected modal to open on click")
	}
	if !m.engine.Snapshot().ModalOpen {
		t.Fatal("expected engine to suspend hover while modal is open")
	}
	if m.order.Current() != m.modal.item {
		t.Fatalf("order current = %d, modal item = %d", m.order.Current(), m.modal.item)
	}

	opened := m.modal.item
	m, _ = m.handleMsg(runes("n"))
	if m.modal.item != (opened+1)%len(m.items) {
		t.Fatalf("next item = %d, want %d", m.modal.item, (opened+1)%len(m.items))
	}

	m, _ = m.handleMsg(tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal.open || m.engine.Snapshot().ModalOpen {
		t.Fatal("expected esc to close modal")
	}
}

func TestGalleryModalSpringOpens(t *testing.T) {
	m := newTestGallery(t, Options{FPS: 60})
	m.openModal(0)
	for i := 0; i < 120; i++ {
		m.modal.spring.step()
	}
	if got := m.modal.spring.progress(); got != 1 {
		t.Fatalf("progress = %v, want settled at 1", got)
	}
	if !strings.Contains(m.View(), "Item 0") {
		t.Fatal("expected modal to show the item title")
	}
}

func TestGalleryDragDoesNotOpenModal(t *testing.T) {
	m := newTestGallery(t, Options{})
	x, y := centreCellPoint(t, m)

	m, _ = m.handleMsg(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = m.handleMsg(tea.MouseMsg{X: x + 20, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = m.handleMsg(tea.MouseMsg{X: x + 20, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.modal.open {
		t.Fatal("drag must not open the modal")
	}
	if m.pressed {
		t.Fatal("expected release to clear pressed state")
	}
}

func TestGalleryLikeWithoutStore(t *testing.T) {
	m := newTestGallery(t, Options{})
	m.openModal(0)
	m, _ = m.handleMsg(runes("l"))
	if !m.statusErr || m.status == "" {
		t.Fatalf("expected disabled status, got %q", m.status)
	}
}

func TestGalleryLikeAndBookmark(t *testing.T) {
	store, err := interactions.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := newTestGallery(t, Options{Store: store})
	m.openModal(3)

	m, cmd := m.handleMsg(runes("l"))
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	m, _ = m.handleMsg(cmd())
	if !m.states["id-3"].Liked {
		t.Fatal("expected item to be liked")
	}
	if m.status != "liked" {
		t.Fatalf("status = %q, want liked", m.status)
	}

	m, cmd = m.handleMsg(runes("b"))
	m, _ = m.handleMsg(cmd())
	liked, err := store.Liked(context.Background(), "id-3")
	if err != nil || !liked {
		t.Fatalf("Liked = %v, %v", liked, err)
	}
	if st := m.states["id-3"]; !st.Liked || !st.Bookmarked {
		t.Fatalf("state = %+v", st)
	}
}

func TestGalleryCategoryCycle(t *testing.T) {
	m := newTestGallery(t, Options{})
	if len(m.categories) != 2 {
		t.Fatalf("categories = %v", m.categories)
	}

	m, _ = m.handleMsg(runes("c"))
	if m.category != "even" || len(m.items) != 5 {
		t.Fatalf("category %q with %d items", m.category, len(m.items))
	}
	for _, it := range m.items {
		if !it.HasTag("even") {
			t.Fatalf("item %s does not match filter", it.ID)
		}
	}
	if len(m.engine.Cells()) == 0 {
		t.Fatal("remounted engine should keep the viewport")
	}

	m, _ = m.handleMsg(runes("c"))
	m, _ = m.handleMsg(runes("c"))
	if m.category != "" || len(m.items) != 10 {
		t.Fatalf("expected filter to wrap to all, got %q with %d items", m.category, len(m.items))
	}
}

func TestGalleryReload(t *testing.T) {
	m := newTestGallery(t, Options{})
	items, textures := testItems(3)
	m, _ = m.handleMsg(ReloadMsg{Items: items, Textures: textures})
	if len(m.items) != 3 || len(m.textures) != 3 {
		t.Fatalf("items %d textures %d, want 3", len(m.items), len(m.textures))
	}
	if !strings.Contains(m.status, "3 items") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestGalleryStaleStatusClear(t *testing.T) {
	m := newTestGallery(t, Options{})
	m.setStatus("first", false)
	m.setStatus("second", false)

	m, _ = m.handleMsg(statusClearMsg{seq: 1})
	if m.status != "second" {
		t.Fatalf("stale clear removed status: %q", m.status)
	}
	m, _ = m.handleMsg(statusClearMsg{seq: 2})
	if m.status != "" {
		t.Fatalf("status = %q, want cleared", m.status)
	}
}

func TestGalleryQuitUnmounts(t *testing.T) {
	m := newTestGallery(t, Options{})
	m, cmd := m.handleMsg(runes("q"))
	if cmd == nil || !m.quitting {
		t.Fatal("expected quit")
	}
	if m.engine.Mounted() {
		t.Fatal("expected engine to be unmounted")
	}
	if m.View() != "" {
		t.Fatal("expected empty view after quit")
	}
}

func TestTeaHostDropsCancelledCallbacks(t *testing.T) {
	h := newTeaHost(time.Millisecond)
	fired := 0
	id := h.RequestFrame(func(time.Time) { fired++ })
	timer := h.AfterFunc(time.Second, func() { fired++ })
	h.Cancel(id)
	h.Cancel(timer)

	if !h.deliver(frameMsg{id: id}) || !h.deliver(timerMsg{id: timer}) {
		t.Fatal("host messages should be recognised")
	}
	if fired != 0 {
		t.Fatalf("fired = %d, want 0", fired)
	}
	if h.deliver(tea.KeyMsg{}) {
		t.Fatal("foreign message claimed by host")
	}
	if h.drain() == nil {
		t.Fatal("expected scheduled commands")
	}
	if h.drain() != nil {
		t.Fatal("drain should empty the queue")
	}
}

func TestTeaHostSubscriptions(t *testing.T) {
	h := newTeaHost(time.Millisecond)
	var got []gallery.EventKind
	unsub := h.Subscribe(func(ev gallery.Event) { got = append(got, ev.Kind) })
	h.emit(gallery.Resize(10, 20))
	unsub()
	h.emit(gallery.Wheel(1))

	if len(got) != 1 || got[0] != gallery.EventResize {
		t.Fatalf("events = %v", got)
	}
	if w, hh := h.Viewport(); w != 10 || hh != 20 {
		t.Fatalf("viewport = %vx%v", w, hh)
	}
}

func TestMouseEvent(t *testing.T) {
	tests := []struct {
		name    string
		msg     tea.MouseMsg
		pressed bool
		want    gallery.Event
		ok      bool
	}{
		{"press", tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, false, gallery.PointerDown(3.5, 9), true},
		{"right press ignored", tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}, false, gallery.Event{}, false},
		{"release", tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionRelease}, true, gallery.PointerUp(3.5, 9), true},
		{"motion", tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion}, false, gallery.PointerMove(0.5, 1), true},
		{"wheel up", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}, false, gallery.Wheel(-wheelDelta), true},
		{"wheel down", tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}, false, gallery.Wheel(wheelDelta), true},
		{"hover into footer", tea.MouseMsg{X: 1, Y: 10, Action: tea.MouseActionMotion}, false, gallery.PointerLeave(1.5, 21), true},
		{"drag into footer", tea.MouseMsg{X: 1, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}, true, gallery.PointerMove(1.5, 21), true},
		{"press in footer", tea.MouseMsg{X: 1, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, false, gallery.PointerDown(1.5, 21), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mouseEvent(tt.msg, 2, 10, tt.pressed)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("event = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOverlayLine(t *testing.T) {
	if got := overlayLine("abcdef", "XY", 2); got != "ab"+ansiReset+"XY"+ansiReset+"ef" {
		t.Fatalf("overlay = %q", got)
	}
	// Shifted left to stay inside the line.
	if got := overlayLine("abcdef", "XYZ", 5); got != "abc"+ansiReset+"XYZ"+ansiReset {
		t.Fatalf("overlay at edge = %q", got)
	}
	if got := overlayBlock("aaa\nbbb\nccc", "X\nY", 1, 2); got != "aaa\nbbb\nc"+ansiReset+"X"+ansiReset+"c" {
		t.Fatalf("block = %q", got)
	}
}

package ui

import (
	"context"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/olivier-w/climg/internal/catalog"
	"github.com/olivier-w/climg/internal/gallery"
	"github.com/olivier-w/climg/internal/interactions"
	"github.com/olivier-w/climg/internal/render"
	"github.com/olivier-w/climg/internal/texture"
	"github.com/olivier-w/climg/internal/util"
)

const statusTimeout = 4 * time.Second

// Options configures a GalleryModel.
type Options struct {
	Config       gallery.Config
	FPS          int
	CornerRadius float64
	Store        *interactions.Store // nil disables like/bookmark
	SaveDir      string              // where "s" writes; empty disables saving
	Category     string              // initial filter, empty for all
	Source       string              // shown in the window title
	Logger       *zap.Logger
}

// engineSignals collects engine callbacks between updates. Callbacks fire
// synchronously inside Update, so no locking is needed.
type engineSignals struct {
	clicks []gallery.Item
	swipes []gallery.SwipeDirection
	cursor gallery.Cursor
}

// GalleryModel is the Bubbletea model hosting the interactive gallery.
type GalleryModel struct {
	opts Options
	log  *zap.Logger

	host    *teaHost
	engine  *gallery.Engine
	signals *engineSignals
	comp    *render.Compositor
	term    *render.Terminal

	all         []gallery.Item
	allTextures []texture.Texture
	items       []gallery.Item
	textures    []image.Image
	order       *catalog.Order

	categories []string
	category   string

	states map[string]interactions.State

	modal   modalState
	keys    keyMap
	help    help.Model
	pressed bool

	width  int
	height int

	status    string
	statusErr bool
	statusSeq int

	fps        float64
	fpsFrames  int
	fpsStarted time.Time

	quitting bool
}

// NewGallery builds the model over items and their settled textures.
func NewGallery(items []gallery.Item, textures []texture.Texture, opts Options) (GalleryModel, error) {
	if err := opts.Config.Validate(); err != nil {
		return GalleryModel{}, err
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	comp := render.NewCompositor()
	comp.CornerRadius = opts.CornerRadius

	m := GalleryModel{
		opts:    opts,
		log:     opts.Logger,
		host:    newTeaHost(time.Second / time.Duration(opts.FPS)),
		signals: &engineSignals{},
		comp:    comp,
		term:    render.NewTerminal(),
		states:  make(map[string]interactions.State),
		keys:    defaultKeyMap(),
		help:    help.New(),
		modal:   modalState{spring: newModalSpring(opts.FPS)},
	}
	m.help.Styles.ShortKey = statusStyle
	m.help.Styles.ShortDesc = helpStyle
	m.help.Styles.FullKey = statusStyle
	m.help.Styles.FullDesc = helpStyle

	m.setContents(items, textures)
	if opts.Category != "" {
		m.category = opts.Category
	}
	if err := m.mount(); err != nil {
		return GalleryModel{}, err
	}
	return m, nil
}

func (m GalleryModel) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(windowTitle(m.opts.Source)),
		m.loadStates(),
		m.host.drain(),
	)
}

func (m GalleryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, tea.Batch(cmd, next.host.drain())
}

func (m GalleryModel) handleMsg(msg tea.Msg) (GalleryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.emitResize()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.BlurMsg:
		m.pressed = false
		m.host.emit(gallery.PointerLeave(-1, -1))
		return m, m.consumeSignals()

	case frameMsg:
		m.host.deliver(msg)
		m.countFrame(msg.time)
		if m.modal.visible() {
			m.modal.spring.step()
		}
		return m, m.consumeSignals()

	case timerMsg:
		m.host.deliver(msg)
		return m, m.consumeSignals()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReloadMsg:
		m.setContents(msg.Items, msg.Textures)
		if err := m.mount(); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, tea.Batch(m.loadStates(), m.setStatus(fmt.Sprintf("reloaded %s", util.Plural(len(msg.Items), "item")), false))

	case statesLoadedMsg:
		if msg.err != nil {
			m.log.Warn("load interaction state", zap.Error(msg.err))
			return m, nil
		}
		m.states = msg.states
		return m, nil

	case interactionMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		st := m.states[msg.itemID]
		label := "liked"
		if msg.bookmark {
			st.Bookmarked = msg.on
			label = "bookmarked"
		} else {
			st.Liked = msg.on
		}
		m.states[msg.itemID] = st
		if !msg.on {
			label = "un" + label
		}
		return m, m.setStatus(label, false)

	case fileSavedMsg:
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("Save failed: %v", msg.err), true)
		}
		return m, m.setStatus(fmt.Sprintf("Saved to %s", msg.path), false)

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}
	return m, nil
}

func (m GalleryModel) handleMouse(msg tea.MouseMsg) (GalleryModel, tea.Cmd) {
	if m.modal.open {
		// Any press outside the detail box dismisses it.
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.closeModal()
		}
		return m, nil
	}

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pressed = true
	case msg.Action == tea.MouseActionRelease:
		m.pressed = false
	}
	ev, ok := mouseEvent(msg, m.term.RowScale(), m.galleryRows(), m.pressed)
	if !ok {
		return m, nil
	}
	m.host.emit(ev)
	return m, m.consumeSignals()
}

func (m GalleryModel) handleKey(msg tea.KeyMsg) (GalleryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.engine.Unmount()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, m.keys.Close):
		if m.modal.open {
			m.closeModal()
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.modal.open {
			return m, nil
		}
		if _, i, ok := m.engine.Hovered(); ok {
			m.openModal(i)
		}
		return m, nil

	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		if !m.modal.open || m.order.Len() == 0 {
			return m, nil
		}
		if key.Matches(msg, m.keys.Next) {
			m.modal.item = m.order.Next()
		} else {
			m.modal.item = m.order.Previous()
		}
		return m, nil

	case key.Matches(msg, m.keys.Shuffle):
		if m.order.ToggleShuffle() {
			return m, m.setStatus("shuffle on", false)
		}
		return m, m.setStatus("shuffle off", false)

	case key.Matches(msg, m.keys.Like):
		return m, m.toggle(false)

	case key.Matches(msg, m.keys.Bookmark):
		return m, m.toggle(true)

	case key.Matches(msg, m.keys.Save):
		return m, m.save()

	case key.Matches(msg, m.keys.Category):
		return m.cycleCategory()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.emitResize()
		return m, nil
	}
	return m, nil
}

// setContents replaces the unfiltered items and textures.
func (m *GalleryModel) setContents(items []gallery.Item, textures []texture.Texture) {
	m.all = items
	m.allTextures = textures
	m.categories = catalog.Categories(items)
}

// mount rebuilds the engine over the items passing the category filter.
func (m *GalleryModel) mount() error {
	if m.engine != nil {
		m.engine.Unmount()
	}
	m.closeModal()

	m.items = nil
	m.textures = nil
	for i, it := range m.all {
		if m.category != "" && !it.HasTag(m.category) {
			continue
		}
		m.items = append(m.items, it)
		var img image.Image
		if i < len(m.allTextures) && m.allTextures[i].Image != nil {
			img = m.allTextures[i].Image
		}
		m.textures = append(m.textures, img)
	}
	shuffled := m.order != nil && m.order.Shuffled()
	m.order = catalog.NewOrder(len(m.items))
	if shuffled {
		m.order.EnableShuffle()
	}

	sig, log := m.signals, m.log
	eng, err := gallery.New(m.items, m.opts.Config,
		gallery.WithRenderer(m.comp),
		gallery.WithLogger(m.log),
		gallery.OnHoverChange(func(item int, hovered bool) {
			log.Debug("hover", zap.Int("item", item), zap.Bool("hovered", hovered))
		}),
		gallery.OnItemClick(func(it gallery.Item) { sig.clicks = append(sig.clicks, it) }),
		gallery.OnSwipe(func(d gallery.SwipeDirection) { sig.swipes = append(sig.swipes, d) }),
		gallery.OnCursor(func(c gallery.Cursor) { sig.cursor = c }),
	)
	if err != nil {
		return err
	}
	if err := eng.Mount(m.host); err != nil {
		return err
	}
	m.engine = eng
	m.log.Info("gallery mounted",
		zap.Int("items", len(m.items)),
		zap.String("category", m.category))
	return nil
}

// consumeSignals applies the engine callbacks collected during the update.
func (m *GalleryModel) consumeSignals() tea.Cmd {
	sig := m.signals
	clicks := sig.clicks
	swipes := sig.swipes
	sig.clicks, sig.swipes = nil, nil

	for _, d := range swipes {
		m.log.Debug("swipe", zap.Stringer("direction", d))
	}
	if len(clicks) == 0 {
		return nil
	}
	it := clicks[len(clicks)-1]
	for i := range m.items {
		if m.items[i].ID == it.ID {
			m.openModal(i)
			break
		}
	}
	return nil
}

func (m *GalleryModel) openModal(i int) {
	m.modal.open = true
	m.modal.item = i
	m.modal.spring.target = 1
	m.order.Jump(i)
	m.engine.SetModalOpen(true)
	m.log.Debug("open item", zap.String("id", m.items[i].ID))
}

func (m *GalleryModel) closeModal() {
	if !m.modal.open {
		return
	}
	m.modal.open = false
	m.modal.spring.target = 0
	if m.engine != nil {
		m.engine.SetModalOpen(false)
	}
}

func (m GalleryModel) cycleCategory() (GalleryModel, tea.Cmd) {
	if len(m.categories) == 0 {
		return m, m.setStatus("no categories", false)
	}
	next := ""
	if m.category == "" {
		next = m.categories[0]
	} else {
		for i, c := range m.categories {
			if strings.EqualFold(c, m.category) && i+1 < len(m.categories) {
				next = m.categories[i+1]
				break
			}
		}
	}
	m.category = next
	if err := m.mount(); err != nil {
		return m, m.setStatus(err.Error(), true)
	}
	return m, m.setStatus("category: "+m.categoryLabel(), false)
}

// target is the item an action applies to: the open item, else the hovered
// one.
func (m *GalleryModel) target() (int, bool) {
	if m.modal.open {
		return m.modal.item, m.modal.item >= 0 && m.modal.item < len(m.items)
	}
	_, i, ok := m.engine.Hovered()
	return i, ok
}

func (m *GalleryModel) toggle(bookmark bool) tea.Cmd {
	i, ok := m.target()
	if !ok {
		return nil
	}
	store := m.opts.Store
	if store == nil {
		return m.setStatus("likes and bookmarks are disabled", true)
	}
	id := m.items[i].ID
	return func() tea.Msg {
		ctx := context.Background()
		var (
			on  bool
			err error
		)
		if bookmark {
			on, err = store.ToggleBookmark(ctx, id)
		} else {
			on, err = store.ToggleLike(ctx, id)
		}
		return interactionMsg{itemID: id, bookmark: bookmark, on: on, err: err}
	}
}

func (m *GalleryModel) save() tea.Cmd {
	i, ok := m.target()
	if !ok {
		return nil
	}
	if m.opts.SaveDir == "" {
		return m.setStatus("saving is disabled", true)
	}
	img := m.textures[i]
	if img == nil {
		return m.setStatus("nothing to save", true)
	}
	dir, title := m.opts.SaveDir, m.items[i].Title
	return func() tea.Msg {
		path, err := texture.SaveWebP(img, dir, title)
		return fileSavedMsg{path: path, err: err}
	}
}

func (m *GalleryModel) loadStates() tea.Cmd {
	store := m.opts.Store
	if store == nil || len(m.all) == 0 {
		return nil
	}
	ids := make([]string, len(m.all))
	for i, it := range m.all {
		ids[i] = it.ID
	}
	return func() tea.Msg {
		states, err := store.State(context.Background(), ids)
		return statesLoadedMsg{states: states, err: err}
	}
}

// setStatus shows text in the status line until a newer status replaces it
// or the timeout clears it.
func (m *GalleryModel) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusErr = isErr
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return statusClearMsg{seq: seq}
	})
}

func (m *GalleryModel) countFrame(now time.Time) {
	if m.fpsStarted.IsZero() {
		m.fpsStarted = now
	}
	m.fpsFrames++
	if d := now.Sub(m.fpsStarted); d >= time.Second {
		m.fps = float64(m.fpsFrames) / d.Seconds()
		m.fpsFrames = 0
		m.fpsStarted = now
	}
}

// footerRows is the height of the status and help lines.
func (m *GalleryModel) footerRows() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

func (m *GalleryModel) galleryRows() int {
	return max(0, m.height-m.footerRows())
}

// emitResize sends the pixel size of the gallery area to the engine.
func (m *GalleryModel) emitResize() {
	w, h := m.term.PixelSize(m.width, m.galleryRows())
	m.host.emit(gallery.Resize(float64(w), float64(h)))
}

func (m *GalleryModel) categoryLabel() string {
	if m.category == "" {
		return "all"
	}
	return m.category
}

func (m GalleryModel) View() string {
	if m.quitting {
		return ""
	}
	rows := m.galleryRows()
	pw, ph := m.term.PixelSize(m.width, rows)

	view := ""
	if rows > 0 && m.width > 0 {
		frame := m.comp.Compose(m.textures, pw, ph)
		view = m.term.Render(frame, m.width, rows)
		if m.modal.visible() {
			view = m.overlayModal(view, rows)
		} else {
			view = m.overlayHover(view, rows)
		}
	}
	if len(m.items) == 0 && rows > 0 {
		view = lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center,
			helpStyle.Render("no items in category "+m.categoryLabel()))
	}

	var b strings.Builder
	b.WriteString(view)
	if view != "" {
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m GalleryModel) overlayHover(view string, rows int) string {
	it, _, ok := m.engine.Hovered()
	if !ok {
		return view
	}
	bounds, ok := m.engine.HoverBounds()
	if !ok {
		return view
	}
	scale := float64(m.term.RowScale())
	row := int(math.Floor(bounds.Bottom()/scale)) - 1
	col := int(math.Floor(bounds.Left))
	row = max(0, min(row, rows-1))

	label := hoverStyle.Render(it.Title + stateMarks(m.states[it.ID]))
	return overlayBlock(view, label, col, row)
}

func (m GalleryModel) overlayModal(view string, rows int) string {
	if m.modal.item < 0 || m.modal.item >= len(m.items) {
		return view
	}
	box := m.modalView(rows)
	lines := strings.Split(box, "\n")
	shown := int(math.Round(m.modal.spring.progress() * float64(len(lines))))
	if shown <= 0 {
		return view
	}
	lines = lines[:min(shown, len(lines))]

	bw := lipgloss.Width(box)
	col := max(0, (m.width-bw)/2)
	row := max(0, (rows-len(strings.Split(box, "\n")))/2)
	return overlayBlock(view, strings.Join(lines, "\n"), col, row)
}

func (m GalleryModel) modalView(rows int) string {
	it := m.items[m.modal.item]
	innerW := max(10, m.width*2/3)
	previewRows := max(2, rows*2/3-6)

	pw, ph := m.term.PixelSize(innerW, previewRows)
	preview := m.term.Render(render.ImageFrame(m.textures[m.modal.item], pw, ph, render.RGB{}), innerW, previewRows)

	var b strings.Builder
	b.WriteString(preview)
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(it.Title))
	b.WriteString(stateMarks(m.states[it.ID]))
	b.WriteByte('\n')

	var meta []string
	if it.Author != "" {
		meta = append(meta, it.Author)
	}
	if it.Year != "" {
		meta = append(meta, it.Year)
	}
	if it.Size > 0 {
		meta = append(meta, util.FormatBytes(it.Size))
	}
	meta = append(meta, fmt.Sprintf("%d/%d", m.modal.item+1, len(m.items)))
	b.WriteString(authorStyle.Render(strings.Join(meta, "  ·  ")))
	if len(it.Tags) > 0 {
		b.WriteByte('\n')
		b.WriteString(tagStyle.Render("#" + strings.Join(it.Tags, " #")))
	}
	return modalStyle.Render(b.String())
}

func (m GalleryModel) statusLine() string {
	parts := []string{
		headerStyle.Render("climg"),
		statusStyle.Render(util.Plural(len(m.items), "item")),
		statusStyle.Render("category: " + m.categoryLabel()),
		statusStyle.Render(string(m.signals.cursor)),
	}
	if m.order != nil && m.order.Shuffled() {
		parts = append(parts, statusStyle.Render("[shuffle]"))
	}
	if m.fps > 0 {
		parts = append(parts, helpStyle.Render(fmt.Sprintf("%.0f fps", m.fps)))
	}
	if m.status != "" {
		style := helpStyle
		if m.statusErr {
			style = errorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	return " " + strings.Join(parts, helpStyle.Render("  ·  "))
}

func stateMarks(st interactions.State) string {
	s := ""
	if st.Liked {
		s += " ♥"
	}
	if st.Bookmarked {
		s += " ★"
	}
	return s
}

func windowTitle(source string) string {
	if source == "" {
		return "climg"
	}
	return source + " · climg"
}

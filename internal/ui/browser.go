package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/climg/internal/catalog"
)

// BrowserSelectedMsg is sent when the user picks a gallery source.
type BrowserSelectedMsg struct {
	Path string
}

// BrowserCancelledMsg is sent when the user leaves the browser.
type BrowserCancelledMsg struct{}

type sourceItem struct {
	name string
	path string
	kind string
}

func (i sourceItem) Title() string       { return i.name }
func (i sourceItem) Description() string { return i.kind }
func (i sourceItem) FilterValue() string { return i.name }

type urlItem struct{}

func (i urlItem) Title() string       { return "Open URL..." }
func (i urlItem) Description() string { return "an image or an assets endpoint" }
func (i urlItem) FilterValue() string { return "url" }

// BrowserModel lets the user pick a directory, list, manifest or URL to open.
type BrowserModel struct {
	list    list.Model
	input   textinput.Model
	urlMode bool
	err     error
}

// NewBrowser lists the gallery sources found in dir.
func NewBrowser(dir string) BrowserModel {
	sources, err := scanSources(dir)
	if err != nil {
		return BrowserModel{err: fmt.Errorf("cannot read directory: %w", err)}
	}

	items := []list.Item{urlItem{}}
	for _, s := range sources {
		items = append(items, s)
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "climg"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "https://..."
	ti.CharLimit = 2048
	ti.Width = 60

	return BrowserModel{list: l, input: ti}
}

// scanSources returns dir itself followed by its subdirectories, list files
// and manifests, sorted by name.
func scanSources(dir string) ([]sourceItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []sourceItem
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		ext := strings.ToLower(filepath.Ext(name))
		switch {
		case e.IsDir():
			out = append(out, sourceItem{name: name + "/", path: path, kind: "directory"})
		case ext == ".yaml" || ext == ".yml":
			out = append(out, sourceItem{name: name, path: path, kind: "manifest"})
		case catalog.IsListExt(ext):
			out = append(out, sourceItem{name: name, path: path, kind: "list"})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].name) < strings.ToLower(out[j].name)
	})
	return append([]sourceItem{{name: "./", path: dir, kind: "this directory"}}, out...), nil
}

func (m BrowserModel) HasError() bool {
	return m.err != nil
}

func (m BrowserModel) Error() error {
	return m.err
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("climg")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		if k, ok := msg.(tea.KeyMsg); ok && isQuit(k) {
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}
		return m, nil
	}
	if m.urlMode {
		return m.updateURLInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case urlItem:
				m.urlMode = true
				m.input.Focus()
				return m, tea.Batch(textinput.Blink, tea.SetWindowTitle("climg · enter URL"))
			case sourceItem:
				return m, selectCmd(item.path)
			}
		case "q", "esc", "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateURLInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if url := strings.TrimSpace(m.input.Value()); url != "" {
				return m, selectCmd(url)
			}
		case "esc":
			m.urlMode = false
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("climg")
		case "ctrl+c":
			return m, func() tea.Msg { return BrowserCancelledMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func selectCmd(path string) tea.Cmd {
	return func() tea.Msg { return BrowserSelectedMsg{Path: path} }
}

func (m BrowserModel) View() string {
	if m.urlMode {
		s := "\n"
		s += "  " + headerStyle.Render("climg") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Enter URL:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	return m.list.View()
}

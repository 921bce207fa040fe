package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/climg/internal/ui"
)

type startupPhase uint8

const (
	phaseBrowse startupPhase = iota
	phaseOpening
)

// galleryOpener turns a source argument into a ready gallery model.
type galleryOpener interface {
	openGallery(ctx context.Context, arg string, progress func(done, total int)) (ui.GalleryModel, error)
}

type startupResolvedMsg struct {
	model ui.GalleryModel
	err   error
}

type startupProgressMsg struct {
	done, total int
}

// startupModel shows the source picker, then a spinner and texture progress
// while the chosen source opens, then hands the program to the gallery.
type startupModel struct {
	ctx     context.Context
	opener  galleryOpener
	browser ui.BrowserModel
	phase   startupPhase
	source  string
	fromArg bool // opened from the command line; failures quit instead of browsing
	errMsg  string
	err     error

	width    int
	height   int
	spinner  spinner.Model
	progress progress.Model
	done     int
	total    int
	statusCh chan startupProgressMsg
}

func newStartupModel(ctx context.Context, opener galleryOpener, arg string) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	p := progress.New(
		progress.WithScaledGradient("#FF8C00", "#FF5F1F"),
		progress.WithoutPercentage(),
	)

	m := startupModel{
		ctx:      ctx,
		opener:   opener,
		phase:    phaseBrowse,
		spinner:  s,
		progress: p,
	}
	if arg != "" {
		m.fromArg = true
		m.begin(arg)
	} else {
		m.browser = ui.NewBrowser(".")
	}
	return m
}

// begin switches to the opening phase for source.
func (m *startupModel) begin(source string) {
	m.phase = phaseOpening
	m.source = source
	m.errMsg = ""
	m.done, m.total = 0, 0
	m.statusCh = make(chan startupProgressMsg, 16)
}

func (m startupModel) Init() tea.Cmd {
	if m.phase == phaseOpening {
		return tea.Batch(
			tea.SetWindowTitle("climg · opening"),
			m.spinner.Tick,
			m.waitForProgress(),
			openSourceCmd(m.ctx, m.opener, m.source, m.statusCh),
		)
	}
	return tea.Batch(m.browser.Init(), m.spinner.Tick)
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-8, 20), 60)
		if m.phase == phaseBrowse {
			return m.updateBrowser(msg)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseOpening {
			return m, cmd
		}
		return m, nil

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		m.begin(msg.Path)
		return m, tea.Batch(
			m.spinner.Tick,
			m.waitForProgress(),
			openSourceCmd(m.ctx, m.opener, msg.Path, m.statusCh),
		)

	case startupProgressMsg:
		m.done, m.total = msg.done, msg.total
		return m, m.waitForProgress()

	case startupResolvedMsg:
		m.statusCh = nil
		if msg.err != nil {
			if m.fromArg {
				m.err = fmt.Errorf("%s: %w", m.source, msg.err)
				return m, tea.Quit
			}
			m.phase = phaseBrowse
			m.errMsg = msg.err.Error()
			return m, nil
		}

		cmds := []tea.Cmd{msg.model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return msg.model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseOpening && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phaseBrowse {
		return m.updateBrowser(msg)
	}
	return m, nil
}

func (m startupModel) updateBrowser(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.browser.Update(msg)
	if browser, ok := model.(ui.BrowserModel); ok {
		m.browser = browser
	}
	return m, cmd
}

func (m startupModel) waitForProgress() tea.Cmd {
	if m.statusCh == nil {
		return nil
	}
	ch := m.statusCh
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return p
	}
}

func (m startupModel) View() string {
	if m.phase == phaseBrowse {
		if m.browser.HasError() {
			return "\n  climg\n\n  " + m.browser.Error().Error() + "\n"
		}
		if m.errMsg == "" {
			return m.browser.View()
		}
		return "\n  climg\n\n  " + startupErrorStyle.Render(m.errMsg) + "\n\n" + indentBlock(m.browser.View(), "  ")
	}
	return m.renderOpeningView()
}

func (m startupModel) renderOpeningView() string {
	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("climg"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")

	if m.total == 0 {
		b.WriteString(startupStatusStyle.Render("Opening " + m.source + "..."))
		b.WriteString("\n")
	} else {
		b.WriteString(startupStatusStyle.Render("Loading textures..."))
		b.WriteString("\n  ")
		b.WriteString(m.progress.ViewAs(float64(m.done) / float64(m.total)))
		fmt.Fprintf(&b, "  %d/%d\n", m.done, m.total)
	}

	b.WriteString("\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func openSourceCmd(ctx context.Context, opener galleryOpener, source string, statusCh chan startupProgressMsg) tea.Cmd {
	return func() tea.Msg {
		defer close(statusCh)
		model, err := opener.openGallery(ctx, source, func(done, total int) {
			select {
			case statusCh <- startupProgressMsg{done: done, total: total}:
			default:
			}
		})
		return startupResolvedMsg{model: model, err: err}
	}
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)

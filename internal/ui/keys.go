package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Quit     key.Binding
	Open     key.Binding
	Close    key.Binding
	Like     key.Binding
	Bookmark key.Binding
	Next     key.Binding
	Prev     key.Binding
	Shuffle  key.Binding
	Save     key.Binding
	Category key.Binding
	Help     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Like:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
		Bookmark: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		Next:     key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/p", "next/prev")),
		Prev:     key.NewBinding(key.WithKeys("p", "left")),
		Shuffle:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "shuffle")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Like, k.Bookmark, k.Category, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Close, k.Next, k.Shuffle},
		{k.Like, k.Bookmark, k.Save},
		{k.Category, k.Help, k.Quit},
	}
}

func isQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

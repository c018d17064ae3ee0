package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	sort     key.Binding
	next     key.Binding
	prev     key.Binding
	download key.Binding
	all      key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next page")),
		prev:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev page")),
		download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		all:      key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "download page")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.sort, k.next, k.prev},
		{k.download, k.all, k.quit},
	}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	nextTab  key.Binding
	prevTab  key.Binding
	up       key.Binding
	down     key.Binding
	shelf    key.Binding
	advance  key.Binding
	progress key.Binding
	rate     key.Binding
	log      key.Binding
	enter    key.Binding
	back     key.Binding
	refresh  key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		nextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		prevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		shelf:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shelf")),
		advance:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next status")),
		progress: key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "+10 pages")),
		rate:     key.NewBinding(key.WithKeys("*"), key.WithHelp("*", "rate")),
		log:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "log session")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextTab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextTab, k.prevTab, k.up, k.down},
		{k.shelf, k.advance, k.progress, k.rate},
		{k.log, k.enter, k.back},
		{k.refresh, k.quit},
	}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	enter  key.Binding
	back   key.Binding
	next   key.Binding
	like   key.Binding
	reload key.Binding
	export key.Binding
	yes    key.Binding
	no     key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "load more")),
		like:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like/unlike")),
		reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		yes:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:     key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.back, k.next},
		{k.like, k.reload, k.export},
		{k.yes, k.no, k.quit},
	}
}

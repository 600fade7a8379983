package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	search   key.Binding
	random   key.Binding
	add      key.Binding
	edit     key.Binding
	favorite key.Binding
	scroll   key.Binding
	faster   key.Binding
	slower   key.Binding
	reset    key.Binding
	export   key.Binding
	save     key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		random:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "random artist")),
		add:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new song")),
		edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		favorite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		scroll:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "auto-scroll")),
		faster:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		slower:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "slower")),
		reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "top")),
		export:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.search, k.random, k.add},
		{k.scroll, k.faster, k.slower, k.reset},
		{k.edit, k.favorite, k.export, k.save, k.quit},
	}
}

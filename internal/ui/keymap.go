package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	toggle  key.Binding
	action  key.Binding
	tab     key.Binding
	newUser key.Binding
	wizard  key.Binding
	cycle   key.Binding
	role    key.Binding
	drop    key.Binding
	reload  key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		action:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "add/remove")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch view")),
		newUser: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new user")),
		wizard:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bulk manager")),
		cycle:   key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "account")),
		role:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "role")),
		drop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "drop assignment")),
		reload:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
		restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new batch")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.toggle, k.newUser, k.cycle, k.role},
		{k.wizard, k.reload, k.restart, k.quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the board's key bindings. It implements help.KeyMap.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Open    key.Binding
	Back    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "right")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "tasks")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Next:    key.NewBinding(key.WithKeys("n", ">"), key.WithHelp("n", "next status")),
		Prev:    key.NewBinding(key.WithKeys("p", "<"), key.WithHelp("p", "prev status")),
		Delete:  key.NewBinding(key.WithKeys("d", "D"), key.WithHelp("d", "delete")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc", "q"), key.WithHelp("n", "no")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.Next, k.Prev, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Open, k.Back, k.Next, k.Prev},
		{k.Delete, k.Reload, k.Help, k.Quit},
	}
}

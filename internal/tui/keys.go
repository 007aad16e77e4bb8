package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Work    key.Binding
	Travel  key.Binding
	Switch  key.Binding
	Add     key.Binding
	Delete  key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Confirm key.Binding
	Decline key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Work:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "work")),
		Travel:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "travel")),
		Switch:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:  key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "I'm sure")),
		Decline: key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Switch}
}

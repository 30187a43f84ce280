package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Tab         key.Binding
	ShiftTab    key.Binding
	Start       key.Binding
	Cancel      key.Binding
	Export      key.Binding
	ToggleRegex key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

var keys = KeyMap{
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	ShiftTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev field")),
	Start:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
	Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Export:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	ToggleRegex: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "regex on/off")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Actions
	Enter        key.Binding
	Back         key.Binding
	Copy         key.Binding
	CopyKey      key.Binding
	CopyAllJSON  key.Binding
	CopyAllYAML  key.Binding
	Search       key.Binding
	Refresh      key.Binding
	ToggleSystem key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Enter, k.Back, k.Search, k.Copy, k.CopyKey, k.Refresh},
		{k.CopyAllJSON, k.CopyAllYAML},
		{k.ToggleSystem, k.Help, k.Quit},
	}
}

// forMode lists the bindings shown in the footer for mode, most important
// first.
func (k KeyMap) forMode(mode Mode) []key.Binding {
	switch mode {
	case ModeList:
		return []key.Binding{k.Quit, k.Enter, k.Help, k.Search, k.ToggleSystem, k.Copy, k.CopyKey, k.Refresh}
	case ModeDetail:
		return []key.Binding{k.Quit, k.Back, k.Search, k.Copy, k.CopyKey, k.Down, k.Up}
	case ModeSearch:
		return []key.Binding{k.Enter, k.Back, k.Down, k.Up}
	default:
		return nil
	}
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       bind("↑/k", "up", "up", "k"),
		Down:     bind("↓/j", "down", "down", "j"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdn", "page down", "pgdown", "ctrl+d"),
		Home:     bind("home/g", "first value", "home", "g"),
		End:      bind("end/G", "last value", "end", "G"),

		Enter:        bind("enter", "view details", "enter"),
		Back:         bind("esc", "back", "esc", "backspace"),
		Copy:         bind("c", "copy value", "c"),
		CopyKey:      bind("s", "copy key", "s"),
		CopyAllJSON:  bind("C", "copy visible as JSON", "C"),
		CopyAllYAML:  bind("alt+c", "copy visible as YAML", "alt+c"),
		Search:       bind("/", "search", "/"),
		Refresh:      bind("r", "reload snapshot", "r"),
		ToggleSystem: bind("a", "toggle System keys", "a"),

		Quit: bind("q", "quit", "q", "ctrl+c"),
		Help: bind("?", "help", "?"),
	}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browser's bindings. List navigation and filtering stay with [list.Model].
type keyMap struct {
	details key.Binding
	back    key.Binding
	open    key.Binding
	top     key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	bind := func(help, desc string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
	}

	return keyMap{
		details: bind("enter", "details", "enter"),
		back:    bind("esc", "back", "esc", "backspace"),
		open:    bind("o", "open in spotify", "o"),
		top:     bind("t", "top tracks", "t"),
		refresh: bind("r", "refresh", "r"),
		quit:    bind("q", "quit", "q", "ctrl+c"),
	}
}

// help returns the bindings shown under each view.
func (k keyMap) help(v ViewState) []key.Binding {
	switch v {
	case DetailView:
		return []key.Binding{k.open, k.back, k.quit}
	case TopTracksView:
		return []key.Binding{k.back, k.quit}
	default:
		return []key.Binding{k.details, k.top, k.refresh, k.quit}
	}
}

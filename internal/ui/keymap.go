package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	Quit       key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Airdrop    key.Binding
	Launch     key.Binding
	Swap       key.Binding
	Submit     key.Binding
	Refresh    key.Binding
	ToggleLogs key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Flip       key.Binding
	Max        key.Binding
	Slippage   key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc/ctrl+c", "quit"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+right", "ctrl+n"),
			key.WithHelp("ctrl+n", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+left", "ctrl+p"),
			key.WithHelp("ctrl+p", "prev tab"),
		),
		Airdrop: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "airdrop"),
		),
		Launch: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("F2", "launch"),
		),
		Swap: key.NewBinding(
			key.WithKeys("f3"),
			key.WithHelp("F3", "swap"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("ctrl+r", "refresh balances"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle logs"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Flip: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "flip assets"),
		),
		Max: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "max amount"),
		),
		Slippage: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "slippage preset"),
		),
	}
}

// ShortHelp returns key help text for the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NextField, k.NextTab, k.Refresh, k.ToggleLogs, k.Quit}
}

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer's keybindings.
type KeyMap struct {
	// Credential
	Upload key.Binding
	Cancel key.Binding

	// Folder selection
	Inbox      key.Binding
	Draft      key.Binding
	Spam       key.Binding
	NextFolder key.Binding

	// Result count
	More key.Binding
	Less key.Binding

	// View
	Table   key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "load key file"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Inbox: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "inbox"),
		),
		Draft: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "drafts"),
		),
		Spam: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "spam"),
		),
		NextFolder: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next folder"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "more"),
		),
		Less: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "fewer"),
		),
		Table: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "table view"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Upload, k.NextFolder, k.More, k.Less, k.Table, k.Help, k.Quit}
}

// FullHelp returns all keybindings grouped by category.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Upload, k.Cancel, k.Refresh},
		{k.Inbox, k.Draft, k.Spam, k.NextFolder},
		{k.More, k.Less, k.Table},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

package form

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings of the form.
type KeyMap struct {
	// Next moves focus to the next field.
	Next key.Binding

	// Prev moves focus to the previous field.
	Prev key.Binding

	// Left and Right cycle the style selector.
	Left  key.Binding
	Right key.Binding

	// Submit validates and returns the request.
	Submit key.Binding

	// Cancel abandons the form.
	Cancel key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "style"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "style"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "next/submit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp returns the bindings shown under the form.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Right, k.Submit, k.Cancel}
}

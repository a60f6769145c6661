package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/wricardo/drone-sim/game/engine"
)

// KeyMap defines the key bindings for the simulator screen.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Forward  key.Binding
	Backward key.Binding
	Reset    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Forward, k.Backward},
		{k.Reset, k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w", "up (+y)"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s", "down (-y)"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a", "left (-x)"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d", "right (+x)"),
		),
		Forward: key.NewBinding(
			key.WithKeys("f", "pgup"),
			key.WithHelp("f/pgup", "forward (+z)"),
		),
		Backward: key.NewBinding(
			key.WithKeys("b", "pgdown"),
			key.WithHelp("b/pgdn", "backward (-z)"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r", "0"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// directionBindings pairs each movement binding with its command
func (k KeyMap) directionBindings() []struct {
	binding   key.Binding
	direction engine.Direction
} {
	return []struct {
		binding   key.Binding
		direction engine.Direction
	}{
		{k.Up, engine.Up},
		{k.Down, engine.Down},
		{k.Left, engine.Left},
		{k.Right, engine.Right},
		{k.Forward, engine.Forward},
		{k.Backward, engine.Backward},
	}
}

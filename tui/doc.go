// Package tui flies a single drone in the terminal.
//
// The Model wraps an engine.Engine directly, without a server. Arrow keys
// (or wasd) move in the x-y plane, f and b change height, r resets to the
// origin. The viewport is centered on the drone: D is the drone, # a desk,
// + the origin.
//
// Usage:
//
//	m := tui.NewModel(engine.NewSimulatorWithDefaults(), tui.DefaultRadius)
//	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
//		log.Fatal(err)
//	}
package tui

// Package config provides obstacle layout management for the drone simulator.
//
// The config package handles:
//   - Loading layouts from JSON or YAML files
//   - Layout validation
//   - The built-in classroom default
//   - Layout discovery and listing
//
// Layout Format:
//
// A layout file holds a name, a description and a list of rectangles:
//
//	name: classroom
//	description: Drone classroom with six desks
//	obstacles:
//	  - {x: 2, y: 2, width: 3, height: 2, type: desk}
//
// The id of a layout is its file name without extension. The id
// "classroom" resolves to the built-in six desks unless a file overrides it.
// Layouts are read-only; there is no save operation.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	layout, err := manager.LoadConfig("hallway")
//	configs, err := manager.ListConfigs()
package config

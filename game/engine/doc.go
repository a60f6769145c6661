// Package engine provides the core simulation logic for the drone classroom.
//
// The engine package implements:
//   - A pure movement function with half-open rectangle collision checks
//   - The Simulator state store (position plus a capped activity log)
//   - The six named directional commands and their deltas
//   - Obstacle layout loading and validation
//
// Core Types:
//
// Position is an integer (x, y, z) triple. Obstacles are rectangles in the
// x-y plane, so z never takes part in collision. ComputeMove returns a
// MoveOutcome without touching any state; Simulator.Move commits it.
//
// Usage:
//
//	sim := engine.NewSimulatorWithDefaults()
//
//	outcome, err := sim.MoveDirection("right")
//	if err != nil {
//		log.Fatal(err)
//	}
//	state := sim.GetState()
//
// Log:
//
// Every move and reset prepends one human-readable line to the log. The log
// keeps the five most recent lines, newest first. A rejected move is not an
// error; it logs "Collision detected! Cannot move." and leaves the drone
// where it was.
package engine

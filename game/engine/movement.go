package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDirection = errors.New("unknown direction")

// Direction names one of the six fixed drone commands
type Direction string

const (
	Up       Direction = "up"
	Down     Direction = "down"
	Left     Direction = "left"
	Right    Direction = "right"
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// Directions lists the directional commands in display order
var Directions = []Direction{Up, Down, Left, Right, Forward, Backward}

var directionDeltas = map[Direction]Delta{
	Up:       {DX: 0, DY: 1, DZ: 0},
	Down:     {DX: 0, DY: -1, DZ: 0},
	Left:     {DX: -1, DY: 0, DZ: 0},
	Right:    {DX: 1, DY: 0, DZ: 0},
	Forward:  {DX: 0, DY: 0, DZ: 1},
	Backward: {DX: 0, DY: 0, DZ: -1},
}

// DirectionDelta returns the delta for a named direction (case-insensitive)
func DirectionDelta(name string) (Delta, error) {
	d, ok := directionDeltas[Direction(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return Delta{}, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
	}
	return d, nil
}

// Collides reports whether pos falls inside any obstacle. Z is ignored.
func Collides(pos Position, obstacles []Obstacle) bool {
	_, hit := ObstacleAt(pos, obstacles)
	return hit
}

// ObstacleAt returns the index of the first obstacle containing pos
func ObstacleAt(pos Position, obstacles []Obstacle) (int, bool) {
	for i, o := range obstacles {
		if o.Contains(pos) {
			return i, true
		}
	}
	return -1, false
}

// ComputeMove applies delta to current and checks the candidate against obstacles.
// It never mutates anything; callers apply Next only when Accepted is true.
func ComputeMove(current Position, delta Delta, obstacles []Obstacle) MoveOutcome {
	next := current.Add(delta)
	outcome := MoveOutcome{
		From:  current,
		Next:  next,
		Delta: delta,
	}

	if Collides(next, obstacles) {
		outcome.Reason = ReasonCollision
		return outcome
	}

	outcome.Accepted = true
	return outcome
}

// MovedMessage formats the log line for an accepted move
func MovedMessage(pos Position) string {
	return fmt.Sprintf("Moved to (%d, %d, %d)", pos.X, pos.Y, pos.Z)
}

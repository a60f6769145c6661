package service

import (
	"time"

	"github.com/wricardo/drone-sim/game/engine"
)

// SessionInfo provides information about a drone session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigID       string             `json:"config_id"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	State          *engine.DroneState `json:"state"`
}

// MoveResult contains the result of a move operation. A collision is a
// normal result with Accepted false, not an error.
type MoveResult struct {
	Accepted      bool               `json:"accepted"`
	Reason        string             `json:"reason,omitempty"`
	Direction     string             `json:"direction,omitempty"`
	Delta         engine.Delta       `json:"delta"`
	Stationary    bool               `json:"stationary,omitempty"` // zero delta, drone hovers in place
	From          engine.Position    `json:"from"`
	To            engine.Position    `json:"to"`
	Attempted     engine.Position    `json:"attempted"`
	BlockedBy     *ObstacleRef       `json:"blocked_by,omitempty"`
	Message       string             `json:"message"`
	PossibleMoves []string           `json:"possible_moves"`
	State         *engine.DroneState `json:"state"`
}

// ResetResult is returned by Reset
type ResetResult struct {
	Message string             `json:"message"`
	State   *engine.DroneState `json:"state"`
}

// ObstacleRef identifies one obstacle of a layout
type ObstacleRef struct {
	Index    int             `json:"index"`
	Obstacle engine.Obstacle `json:"obstacle"`
}

// CellInfo describes what occupies an x-y cell
type CellInfo struct {
	X        int          `json:"x"`
	Y        int          `json:"y"`
	Blocked  bool         `json:"blocked"`
	Drone    bool         `json:"drone"`
	Obstacle *ObstacleRef `json:"obstacle,omitempty"`
}

// ConfigInfo provides information about an obstacle layout
type ConfigInfo struct {
	Filename     string `json:"filename"`
	ConfigID     string `json:"config_id"` // The identifier to use for session creation
	Name         string `json:"name"`      // Display name
	Description  string `json:"description"`
	Obstacles    int    `json:"obstacles"`
	CoveredCells int    `json:"covered_cells"`
	OriginClear  bool   `json:"origin_clear"`
}

// CommandInfo describes one of the six directional commands
type CommandInfo struct {
	Name  string       `json:"name"`
	Delta engine.Delta `json:"delta"`
}

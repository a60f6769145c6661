package engine

// ObstacleType tags an obstacle for rendering. It has no effect on collision.
type ObstacleType string

const (
	Desk ObstacleType = "desk"

	// Log and validation constants
	MaxLogEntries   = 5
	MaxObstacles    = 64
	CellSizePixels  = 40
	ViewportPixels  = 400
	ReasonCollision = "collision"

	MsgCollision = "Collision detected! Cannot move."
	MsgReset     = "Drone reset to initial position."
)

// Position represents x,y,z grid coordinates of the drone
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add returns the elementwise sum of the position and a delta
func (p Position) Add(d Delta) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY, Z: p.Z + d.DZ}
}

// Delta is a movement offset applied to a Position
type Delta struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
	DZ int `json:"dz"`
}

// IsZero reports whether the delta leaves a position unchanged
func (d Delta) IsZero() bool {
	return d.DX == 0 && d.DY == 0 && d.DZ == 0
}

// Obstacle is a static axis-aligned rectangle in the x-y plane.
// It covers the half-open ranges [X, X+Width) and [Y, Y+Height).
type Obstacle struct {
	X      int          `json:"x" yaml:"x"`
	Y      int          `json:"y" yaml:"y"`
	Width  int          `json:"width" yaml:"width"`
	Height int          `json:"height" yaml:"height"`
	Type   ObstacleType `json:"type,omitempty" yaml:"type,omitempty"`
}

// Contains reports whether the x-y projection of pos lies inside the obstacle
func (o Obstacle) Contains(pos Position) bool {
	return pos.X >= o.X && pos.X < o.X+o.Width &&
		pos.Y >= o.Y && pos.Y < o.Y+o.Height
}

// Area returns the number of grid cells the obstacle covers
func (o Obstacle) Area() int {
	return o.Width * o.Height
}

// MoveOutcome is the verdict of the movement engine for a single delta
type MoveOutcome struct {
	Accepted bool     `json:"accepted"`
	From     Position `json:"from"`
	Next     Position `json:"next"`
	Delta    Delta    `json:"delta"`
	Reason   string   `json:"reason,omitempty"`
}

// Layout is a named, immutable set of obstacles
type Layout struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Obstacles   []Obstacle `json:"obstacles" yaml:"obstacles"`
}

// DroneState is the observable state of a simulator
type DroneState struct {
	Position   Position   `json:"position"`
	Log        []string   `json:"log"`
	Obstacles  []Obstacle `json:"obstacles"`
	LayoutName string     `json:"layout_name"`

	// Cumulative counters; reset does not clear them
	TotalCommands int `json:"total_commands"`
	MovesAccepted int `json:"moves_accepted"`
	Collisions    int `json:"collisions"`
	Resets        int `json:"resets"`

	// Computed helper views (not required for core simulation logic)
	LocalView3x3 []string    `json:"local_view_3x3,omitempty"`
	Screen       *ScreenInfo `json:"screen,omitempty"`
}

// ScreenInfo carries the pixel translation a browser renderer applies to the drone
type ScreenInfo struct {
	TranslateX int `json:"translate_x"`
	TranslateY int `json:"translate_y"`
}

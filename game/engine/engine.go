package engine

// Engine provides the main interface for drone simulation operations
type Engine interface {
	// State
	GetState() *DroneState
	Position() Position
	Log() []string
	Reset() *DroneState

	// Movement operations
	Move(delta Delta) MoveOutcome
	MoveDirection(direction string) (MoveOutcome, error)
	CanMove(delta Delta) bool
	GetPossibleMoves() []Direction

	// Configuration
	Layout() *Layout
	Obstacles() []Obstacle
}

// Simulator is the state store for one drone. It owns the position and the
// activity log; the obstacle set is fixed when the simulator is created.
type Simulator struct {
	layout    *Layout
	obstacles []Obstacle
	position  Position
	log       []string

	totalCommands int
	movesAccepted int
	collisions    int
	resets        int
}

// NewSimulator creates a simulator over the provided layout.
// A nil layout selects the built-in classroom.
func NewSimulator(layout *Layout) (*Simulator, error) {
	if layout == nil {
		layout = DefaultLayout()
	}
	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}

	obstacles := make([]Obstacle, len(layout.Obstacles))
	copy(obstacles, layout.Obstacles)

	return &Simulator{
		layout:    layout,
		obstacles: obstacles,
		log:       make([]string, 0, MaxLogEntries),
	}, nil
}

// NewSimulatorWithDefaults creates a simulator over the classroom layout
func NewSimulatorWithDefaults() *Simulator {
	sim, err := NewSimulator(DefaultLayout())
	if err != nil {
		// The classroom layout is a compile-time constant and always valid.
		panic(err)
	}
	return sim
}

// Position returns the current drone position
func (s *Simulator) Position() Position {
	return s.position
}

// Log returns a copy of the activity log, newest first
func (s *Simulator) Log() []string {
	out := make([]string, len(s.log))
	copy(out, s.log)
	return out
}

// Obstacles returns a copy of the fixed obstacle set
func (s *Simulator) Obstacles() []Obstacle {
	out := make([]Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Layout returns the layout the simulator was built from
func (s *Simulator) Layout() *Layout {
	return s.layout
}

// Move asks the movement engine about delta and commits the result.
// An accepted move updates the position; a rejected one only logs.
func (s *Simulator) Move(delta Delta) MoveOutcome {
	s.totalCommands++

	outcome := ComputeMove(s.position, delta, s.obstacles)
	if !outcome.Accepted {
		s.collisions++
		s.appendLog(MsgCollision)
		return outcome
	}

	s.position = outcome.Next
	s.movesAccepted++
	s.appendLog(MovedMessage(s.position))
	return outcome
}

// MoveDirection moves the drone by one of the six named commands
func (s *Simulator) MoveDirection(direction string) (MoveOutcome, error) {
	delta, err := DirectionDelta(direction)
	if err != nil {
		return MoveOutcome{}, err
	}
	return s.Move(delta), nil
}

// CanMove reports whether delta would be accepted from the current position
func (s *Simulator) CanMove(delta Delta) bool {
	return ComputeMove(s.position, delta, s.obstacles).Accepted
}

// GetPossibleMoves returns the directions that are currently not blocked
func (s *Simulator) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if s.CanMove(directionDeltas[dir]) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// Reset puts the drone back at the origin without a collision check.
// In the classroom layout the origin lies inside the desk at (-2, -1), so a
// reset drone can only leave by moving right or up.
func (s *Simulator) Reset() *DroneState {
	s.totalCommands++
	s.resets++
	s.position = Position{}
	s.appendLog(MsgReset)
	return s.GetState()
}

// GetState returns a snapshot of the simulator state
func (s *Simulator) GetState() *DroneState {
	tx, ty := ToScreen(s.position)
	return &DroneState{
		Position:      s.position,
		Log:           s.Log(),
		Obstacles:     s.Obstacles(),
		LayoutName:    s.layout.Name,
		TotalCommands: s.totalCommands,
		MovesAccepted: s.movesAccepted,
		Collisions:    s.collisions,
		Resets:        s.resets,
		LocalView3x3:  LocalView(s.position, s.obstacles),
		Screen:        &ScreenInfo{TranslateX: tx, TranslateY: ty},
	}
}

// appendLog prepends message and drops entries beyond MaxLogEntries
func (s *Simulator) appendLog(message string) {
	s.log = append([]string{message}, s.log...)
	if len(s.log) > MaxLogEntries {
		s.log = s.log[:MaxLogEntries]
	}
}

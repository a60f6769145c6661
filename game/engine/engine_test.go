package engine

import (
	"testing"
)

func createTestLayout() *Layout {
	return &Layout{
		Name:        "Engine Test Layout",
		Description: "Layout for engine integration tests",
		Obstacles: []Obstacle{
			{X: 2, Y: 0, Width: 1, Height: 1, Type: Desk},
			{X: -3, Y: -3, Width: 2, Height: 2, Type: Desk},
		},
	}
}

func TestNewSimulator(t *testing.T) {
	sim, err := NewSimulator(createTestLayout())
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}

	if sim.Position() != (Position{}) {
		t.Errorf("Expected drone at origin, got %+v", sim.Position())
	}
	if len(sim.Log()) != 0 {
		t.Errorf("Expected empty log, got %v", sim.Log())
	}
	if len(sim.Obstacles()) != 2 {
		t.Errorf("Expected 2 obstacles, got %d", len(sim.Obstacles()))
	}
	if sim.Layout().Name != "Engine Test Layout" {
		t.Errorf("Unexpected layout name %q", sim.Layout().Name)
	}
}

func TestNewSimulator_NilLayoutUsesClassroom(t *testing.T) {
	sim, err := NewSimulator(nil)
	if err != nil {
		t.Fatalf("NewSimulator(nil) failed: %v", err)
	}
	if sim.Layout().Name != DefaultLayoutName {
		t.Errorf("Expected %q, got %q", DefaultLayoutName, sim.Layout().Name)
	}
	if len(sim.Obstacles()) != 6 {
		t.Errorf("Expected 6 desks, got %d", len(sim.Obstacles()))
	}
}

func TestNewSimulator_InvalidLayout(t *testing.T) {
	_, err := NewSimulator(&Layout{Name: "empty"})
	if err == nil {
		t.Error("Expected error for layout without obstacles")
	}
}

func TestSimulator_MoveAccepted(t *testing.T) {
	sim := NewSimulatorWithDefaults()

	outcome := sim.Move(Delta{DX: 1})
	if !outcome.Accepted {
		t.Fatal("Expected move right from origin to be accepted")
	}
	if sim.Position() != (Position{X: 1}) {
		t.Errorf("Expected (1,0,0), got %+v", sim.Position())
	}

	log := sim.Log()
	if len(log) != 1 || log[0] != "Moved to (1, 0, 0)" {
		t.Errorf("Unexpected log %v", log)
	}
}

func TestSimulator_MoveIntoDesk(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	sim.Move(Delta{DX: 1, DY: 1})
	if sim.Position() != (Position{X: 1, Y: 1}) {
		t.Fatalf("Setup failed, drone at %+v", sim.Position())
	}

	outcome := sim.Move(Delta{DX: 1, DY: 1})
	if outcome.Accepted {
		t.Error("Expected move into the desk at (2,2) to be rejected")
	}
	if sim.Position() != (Position{X: 1, Y: 1}) {
		t.Errorf("Position changed on collision: %+v", sim.Position())
	}
	if got := sim.Log()[0]; got != MsgCollision {
		t.Errorf("Expected %q, got %q", MsgCollision, got)
	}
}

func TestSimulator_LogCap(t *testing.T) {
	sim := NewSimulatorWithDefaults()

	for _, dir := range []string{"right", "right", "right", "up", "up", "right"} {
		if _, err := sim.MoveDirection(dir); err != nil {
			t.Fatalf("MoveDirection(%q) failed: %v", dir, err)
		}
	}

	expected := []string{
		"Moved to (4, 1, 0)",
		MsgCollision,
		"Moved to (3, 1, 0)",
		"Moved to (3, 0, 0)",
		"Moved to (2, 0, 0)",
	}

	log := sim.Log()
	if len(log) != MaxLogEntries {
		t.Fatalf("Expected %d log entries, got %d: %v", MaxLogEntries, len(log), log)
	}
	for i := range expected {
		if log[i] != expected[i] {
			t.Errorf("log[%d]: expected %q, got %q", i, expected[i], log[i])
		}
	}
}

func TestSimulator_LogIsCopied(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	sim.Move(Delta{DX: 1})

	log := sim.Log()
	log[0] = "tampered"
	if sim.Log()[0] != "Moved to (1, 0, 0)" {
		t.Error("Log() should return a copy")
	}
}

func TestSimulator_Reset(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	sim.MoveDirection("right")
	sim.MoveDirection("up")

	state := sim.Reset()
	if state.Position != (Position{}) {
		t.Errorf("Expected origin after reset, got %+v", state.Position)
	}
	if state.Log[0] != MsgReset {
		t.Errorf("Expected %q, got %q", MsgReset, state.Log[0])
	}
	if len(state.Log) != 3 {
		t.Errorf("Reset should keep earlier log lines, got %v", state.Log)
	}
	if state.Resets != 1 || state.TotalCommands != 3 {
		t.Errorf("Unexpected counters: resets=%d total=%d", state.Resets, state.TotalCommands)
	}
}

func TestSimulator_ResetFromOrigin(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	state := sim.Reset()

	if state.Position != (Position{}) {
		t.Errorf("Expected origin, got %+v", state.Position)
	}
	if len(state.Log) != 1 || state.Log[0] != MsgReset {
		t.Errorf("Unexpected log %v", state.Log)
	}
}

func TestSimulator_MoveDirectionUnknown(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	_, err := sim.MoveDirection("diagonal")
	if err == nil {
		t.Fatal("Expected error for unknown direction")
	}
	if len(sim.Log()) != 0 {
		t.Error("Unknown direction must not touch the log")
	}
	if sim.GetState().TotalCommands != 0 {
		t.Error("Unknown direction must not count as a command")
	}
}

func TestSimulator_Counters(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	sim.MoveDirection("right") // accepted
	sim.MoveDirection("left")  // origin is covered by the desk at (-2,-1)
	sim.MoveDirection("left")
	sim.Reset()

	state := sim.GetState()
	if state.TotalCommands != 4 {
		t.Errorf("TotalCommands: expected 4, got %d", state.TotalCommands)
	}
	if state.MovesAccepted != 1 {
		t.Errorf("MovesAccepted: expected 1, got %d", state.MovesAccepted)
	}
	if state.Collisions != 2 {
		t.Errorf("Collisions: expected 2, got %d", state.Collisions)
	}
	if state.Resets != 1 {
		t.Errorf("Resets: expected 1, got %d", state.Resets)
	}
}

func TestSimulator_GetPossibleMoves(t *testing.T) {
	sim := NewSimulatorWithDefaults()

	moves := sim.GetPossibleMoves()
	expected := []Direction{Up, Right}
	if len(moves) != len(expected) {
		t.Fatalf("Expected %v from origin, got %v", expected, moves)
	}
	for i := range expected {
		if moves[i] != expected[i] {
			t.Errorf("moves[%d]: expected %s, got %s", i, expected[i], moves[i])
		}
	}

	sim.MoveDirection("right")
	if got := len(sim.GetPossibleMoves()); got != 5 {
		t.Errorf("Expected 5 possible moves from (1,0,0), got %d", got)
	}
}

func TestSimulator_GetState(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	sim.MoveDirection("right")

	state := sim.GetState()
	if state.LayoutName != DefaultLayoutName {
		t.Errorf("Expected layout %q, got %q", DefaultLayoutName, state.LayoutName)
	}
	if state.Screen == nil || state.Screen.TranslateX != 240 || state.Screen.TranslateY != 200 {
		t.Errorf("Unexpected screen info %+v", state.Screen)
	}
	if len(state.LocalView3x3) != 3 {
		t.Errorf("Expected 3 local view rows, got %d", len(state.LocalView3x3))
	}

	state.Obstacles[0].X = 99
	if sim.Obstacles()[0].X == 99 {
		t.Error("GetState should not expose the obstacle slice")
	}
}

func TestSimulator_ImplementsEngine(t *testing.T) {
	var _ Engine = NewSimulatorWithDefaults()
}

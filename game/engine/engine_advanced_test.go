package engine

import (
	"math/rand"
	"testing"
)

// Every candidate in a window around the classroom is accepted exactly when
// its x-y projection is outside all desks, each desk covering the half-open
// ranges [X, X+Width) and [Y, Y+Height).
func TestComputeMove_GridSweep(t *testing.T) {
	obstacles := DefaultLayout().Obstacles

	inside := func(x, y int) bool {
		for _, o := range obstacles {
			if x >= o.X && x < o.X+o.Width && y >= o.Y && y < o.Y+o.Height {
				return true
			}
		}
		return false
	}

	blocked := 0
	for x := -8; x <= 8; x++ {
		for y := -8; y <= 8; y++ {
			from := Position{X: x, Y: y, Z: 2}
			for _, dir := range Directions {
				delta := directionDeltas[dir]
				outcome := ComputeMove(from, delta, obstacles)
				want := !inside(x+delta.DX, y+delta.DY)
				if outcome.Accepted != want {
					t.Fatalf("ComputeMove(%+v, %s): expected accepted=%v", from, dir, want)
				}
				if !want {
					blocked++
				}
			}
		}
	}
	if blocked == 0 {
		t.Fatal("Expected the sweep to hit at least one desk")
	}
}

func TestSimulator_RandomWalk(t *testing.T) {
	sim := NewSimulatorWithDefaults()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		dir := Directions[rng.Intn(len(Directions))]
		before := sim.Position()
		outcome, err := sim.MoveDirection(string(dir))
		if err != nil {
			t.Fatal(err)
		}

		if outcome.Accepted {
			if Collides(sim.Position(), sim.Obstacles()) {
				t.Fatalf("step %d: accepted move landed inside a desk at %+v", i, sim.Position())
			}
		} else if sim.Position() != before {
			t.Fatalf("step %d: rejected move changed position %+v -> %+v", i, before, sim.Position())
		}

		if len(sim.Log()) > MaxLogEntries {
			t.Fatalf("step %d: log grew to %d entries", i, len(sim.Log()))
		}
	}
}

func TestToScreen(t *testing.T) {
	tests := []struct {
		pos    Position
		tx, ty int
	}{
		{Position{}, 200, 200},
		{Position{X: 1, Y: 2}, 240, 120},
		{Position{X: -5, Y: -5}, 0, 400},
		{Position{X: 1, Y: 1, Z: 9}, 240, 160},
	}

	for _, test := range tests {
		tx, ty := ToScreen(test.pos)
		if tx != test.tx || ty != test.ty {
			t.Errorf("ToScreen(%+v): expected (%d,%d), got (%d,%d)", test.pos, test.tx, test.ty, tx, ty)
		}
	}
}

func TestLocalView(t *testing.T) {
	view := LocalView(Position{X: 1}, DefaultLayout().Obstacles)
	expected := []string{
		"...",
		"#D.",
		"#..",
	}

	if len(view) != len(expected) {
		t.Fatalf("Expected %d rows, got %d", len(expected), len(view))
	}
	for i := range expected {
		if view[i] != expected[i] {
			t.Errorf("row %d: expected %q, got %q", i, expected[i], view[i])
		}
	}
}

func TestCoveredCellsAndOverlaps(t *testing.T) {
	obstacles := DefaultLayout().Obstacles
	if got := CoveredCells(obstacles); got != 36 {
		t.Errorf("Expected 36 covered cells, got %d", got)
	}
	if pairs := OverlappingPairs(obstacles); len(pairs) != 0 {
		t.Errorf("Expected no overlapping desks, got %v", pairs)
	}

	overlapping := []Obstacle{
		{X: 0, Y: 0, Width: 2, Height: 2},
		{X: 1, Y: 1, Width: 2, Height: 2},
		{X: 2, Y: 0, Width: 1, Height: 1},
	}
	if got := CoveredCells(overlapping); got != 8 {
		t.Errorf("Expected 8 covered cells, got %d", got)
	}
	pairs := OverlappingPairs(overlapping)
	if len(pairs) != 1 || pairs[0] != [2]int{0, 1} {
		t.Errorf("Expected [[0 1]], got %v", pairs)
	}
}

package engine

import "strings"

// ToScreen returns the pixel translation of a position on the 400x400 canvas.
// Screen y grows downward, so grid y is subtracted.
func ToScreen(pos Position) (int, int) {
	center := ViewportPixels / 2
	return center + pos.X*CellSizePixels, center - pos.Y*CellSizePixels
}

// LocalView renders the 3x3 neighborhood around pos in the x-y plane.
// Rows run from y+1 (top) to y-1; 'D' is the drone, '#' an obstacle, '.' free.
func LocalView(pos Position, obstacles []Obstacle) []string {
	lines := make([]string, 0, 3)
	for dy := 1; dy >= -1; dy-- {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				row.WriteByte('D')
				continue
			}
			cell := Position{X: pos.X + dx, Y: pos.Y + dy}
			if Collides(cell, obstacles) {
				row.WriteByte('#')
			} else {
				row.WriteByte('.')
			}
		}
		lines = append(lines, row.String())
	}
	return lines
}

// CoveredCells counts the distinct cells covered by the obstacles
func CoveredCells(obstacles []Obstacle) int {
	type cell struct{ x, y int }
	seen := make(map[cell]struct{})
	for _, o := range obstacles {
		for x := o.X; x < o.X+o.Width; x++ {
			for y := o.Y; y < o.Y+o.Height; y++ {
				seen[cell{x, y}] = struct{}{}
			}
		}
	}
	return len(seen)
}

// OverlappingPairs returns index pairs of obstacles that share at least one cell
func OverlappingPairs(obstacles []Obstacle) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(obstacles); i++ {
		for j := i + 1; j < len(obstacles); j++ {
			a, b := obstacles[i], obstacles[j]
			if a.X < b.X+b.Width && b.X < a.X+a.Width &&
				a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

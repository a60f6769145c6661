package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLayoutName is the identifier of the built-in classroom layout
const DefaultLayoutName = "classroom"

// DefaultLayout returns the six classroom desks
func DefaultLayout() *Layout {
	return &Layout{
		Name:        DefaultLayoutName,
		Description: "Drone classroom with six desks",
		Obstacles: []Obstacle{
			{X: 2, Y: 2, Width: 3, Height: 2, Type: Desk},
			{X: -5, Y: 4, Width: 3, Height: 2, Type: Desk},
			{X: 1, Y: -3, Width: 3, Height: 2, Type: Desk},
			{X: -2, Y: -1, Width: 3, Height: 2, Type: Desk},
			{X: 5, Y: 5, Width: 3, Height: 2, Type: Desk},
			{X: -4, Y: -5, Width: 3, Height: 2, Type: Desk},
		},
	}
}

// ValidateLayout validates an obstacle layout's shape. Origin clearance is
// reported separately by OriginBlockedBy since the classroom desks cover it.
func ValidateLayout(layout *Layout) error {
	if layout == nil {
		return fmt.Errorf("layout validation: layout is nil")
	}
	if layout.Name == "" {
		return fmt.Errorf("layout validation: name is required")
	}
	if len(layout.Obstacles) == 0 {
		return fmt.Errorf("layout validation: at least one obstacle is required")
	}
	if len(layout.Obstacles) > MaxObstacles {
		return fmt.Errorf("layout validation: at most %d obstacles allowed, got %d", MaxObstacles, len(layout.Obstacles))
	}

	for i, o := range layout.Obstacles {
		if o.Width <= 0 || o.Height <= 0 {
			return fmt.Errorf("layout validation: obstacle %d must have positive width and height, got %dx%d",
				i+1, o.Width, o.Height)
		}
	}

	return nil
}

// OriginBlockedBy returns the index of the obstacle covering the reset
// position, or -1 when the origin is clear
func OriginBlockedBy(layout *Layout) int {
	idx, _ := ObstacleAt(Position{}, layout.Obstacles)
	return idx
}

// LoadLayout reads a layout from a .json, .yaml or .yml file and validates it
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	layout, err := ParseLayout(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout '%s': %w", filepath.Base(path), err)
	}

	if err := ValidateLayout(layout); err != nil {
		return nil, err
	}
	return layout, nil
}

// ParseLayout decodes layout data according to the file extension
func ParseLayout(ext string, data []byte) (*Layout, error) {
	var layout Layout
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &layout); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &layout); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported layout format %q", ext)
	}

	for i := range layout.Obstacles {
		if layout.Obstacles[i].Type == "" {
			layout.Obstacles[i].Type = Desk
		}
	}
	return &layout, nil
}

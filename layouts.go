package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/drone-sim/game/engine"
)

// writeLayoutReport prints quick, human-readable facts about the built-in
// layout and every layout file in dir. It returns the number of invalid files.
func writeLayoutReport(w io.Writer, dir string) (int, error) {
	fmt.Fprintf(w, "=== %s (built-in) ===\n", engine.DefaultLayoutName)
	describeLayout(w, engine.DefaultLayout())

	if dir == "" {
		return 0, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read config directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	invalid := 0
	for _, name := range files {
		fmt.Fprintf(w, "\n=== %s ===\n", name)
		layout, err := engine.LoadLayout(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(w, "❌ Invalid: %v\n", err)
			invalid++
			continue
		}
		describeLayout(w, layout)
	}

	return invalid, nil
}

func describeLayout(w io.Writer, layout *engine.Layout) {
	fmt.Fprintf(w, "Name: %s\n", layout.Name)
	if layout.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", layout.Description)
	}
	fmt.Fprintf(w, "Obstacles: %d\n", len(layout.Obstacles))
	fmt.Fprintf(w, "Covered cells: %d\n", engine.CoveredCells(layout.Obstacles))

	area := 0
	for _, o := range layout.Obstacles {
		area += o.Area()
	}
	fmt.Fprintf(w, "Obstacle area: %d\n", area)

	pairs := engine.OverlappingPairs(layout.Obstacles)
	if len(pairs) == 0 {
		fmt.Fprintf(w, "Overlapping obstacles: none\n")
	} else {
		fmt.Fprintf(w, "Overlapping obstacles: %d pair(s)\n", len(pairs))
		for _, p := range pairs {
			fmt.Fprintf(w, "   #%d and #%d\n", p[0]+1, p[1]+1)
		}
	}

	if idx := engine.OriginBlockedBy(layout); idx >= 0 {
		o := layout.Obstacles[idx]
		fmt.Fprintf(w, "⚠️  Origin (0, 0) is inside obstacle #%d at (%d, %d) size %dx%d; reset lands inside it\n",
			idx+1, o.X, o.Y, o.Width, o.Height)
	} else {
		fmt.Fprintf(w, "✅ Origin (0, 0) is clear\n")
	}
}

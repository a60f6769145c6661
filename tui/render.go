package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/drone-sim/game/engine"
)

// Cell glyphs in the viewport
const (
	glyphDrone  = 'D'
	glyphDesk   = '#'
	glyphOrigin = '+'
	glyphFree   = '.'
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	droneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	deskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
	originStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	freeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	movedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	gridStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	panelStyle = lipgloss.NewStyle().PaddingLeft(2)
	helpStyle  = lipgloss.NewStyle().MarginTop(1)
)

// Grid returns the viewport rows around pos, top row first.
// Rows run from y+radius down to y-radius; columns from x-radius to x+radius.
func Grid(pos engine.Position, obstacles []engine.Obstacle, radius int) []string {
	rows := make([]string, 0, 2*radius+1)
	for y := pos.Y + radius; y >= pos.Y-radius; y-- {
		var row strings.Builder
		for x := pos.X - radius; x <= pos.X+radius; x++ {
			row.WriteRune(cellGlyph(engine.Position{X: x, Y: y}, pos, obstacles))
		}
		rows = append(rows, row.String())
	}
	return rows
}

func cellGlyph(cell, drone engine.Position, obstacles []engine.Obstacle) rune {
	switch {
	case cell.X == drone.X && cell.Y == drone.Y:
		return glyphDrone
	case engine.Collides(cell, obstacles):
		return glyphDesk
	case cell.X == 0 && cell.Y == 0:
		return glyphOrigin
	default:
		return glyphFree
	}
}

func styleRow(row string) string {
	var b strings.Builder
	for i, r := range row {
		if i > 0 {
			b.WriteByte(' ')
		}
		s := string(r)
		switch r {
		case glyphDrone:
			b.WriteString(droneStyle.Render(s))
		case glyphDesk:
			b.WriteString(deskStyle.Render(s))
		case glyphOrigin:
			b.WriteString(originStyle.Render(s))
		default:
			b.WriteString(freeStyle.Render(s))
		}
	}
	return b.String()
}

// View renders the viewport, status panel and help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.sim.GetState()

	rows := Grid(state.Position, state.Obstacles, m.radius)
	styled := make([]string, len(rows))
	for i, row := range rows {
		styled[i] = styleRow(row)
	}
	grid := gridStyle.Render(strings.Join(styled, "\n"))

	panel := panelStyle.Render(m.statusPanel(state))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Drone Classroom · " + state.LayoutName))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, panel))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) statusPanel(state *engine.DroneState) string {
	var b strings.Builder

	p := state.Position
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Position:"),
		valueStyle.Render(fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Height:  "), valueStyle.Render(fmt.Sprintf("z=%d", p.Z)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Commands:"),
		valueStyle.Render(fmt.Sprintf("%d (moved %d, blocked %d, resets %d)",
			state.TotalCommands, state.MovesAccepted, state.Collisions, state.Resets)))

	open := make([]string, 0, len(engine.Directions))
	for _, dir := range m.sim.GetPossibleMoves() {
		open = append(open, string(dir))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Open:    "), valueStyle.Render(strings.Join(open, ", ")))

	if m.last != nil {
		if m.last.Accepted {
			b.WriteString(movedStyle.Render("✓ last move accepted"))
		} else {
			b.WriteString(blockedStyle.Render(fmt.Sprintf("✗ (%d, %d) is inside a desk", m.last.Next.X, m.last.Next.Y)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Log"))
	b.WriteString("\n")
	if len(state.Log) == 0 {
		b.WriteString(freeStyle.Render("  (no commands yet)"))
		b.WriteString("\n")
	}
	for _, line := range state.Log {
		style := valueStyle
		if line == engine.MsgCollision {
			style = blockedStyle
		}
		b.WriteString("  " + style.Render(line) + "\n")
	}

	return b.String()
}

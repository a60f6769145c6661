package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/wricardo/drone-sim/game/engine"
)

// DefaultRadius is the number of cells shown on each side of the drone
const DefaultRadius = 5

// Model is the Bubble Tea model for flying one drone locally.
type Model struct {
	sim      engine.Engine
	keys     KeyMap
	help     help.Model
	radius   int
	width    int
	last     *engine.MoveOutcome
	quitting bool
}

// NewModel creates a model over sim. A radius below 1 selects DefaultRadius.
func NewModel(sim engine.Engine, radius int) Model {
	if radius < 1 {
		radius = DefaultRadius
	}

	h := help.New()
	h.ShowAll = false

	return Model{
		sim:    sim,
		keys:   DefaultKeyMap(),
		help:   h,
		radius: radius,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.sim.Reset()
		m.last = nil
		log.Debug("drone reset")
		return m, nil
	}

	for _, b := range m.keys.directionBindings() {
		if key.Matches(msg, b.binding) {
			outcome, err := m.sim.MoveDirection(string(b.direction))
			if err != nil {
				log.Error("move failed", "direction", b.direction, "err", err)
				return m, nil
			}
			m.last = &outcome
			log.Debug("move", "direction", b.direction, "accepted", outcome.Accepted, "to", outcome.Next)
			return m, nil
		}
	}

	return m, nil
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

// Engine returns the drone the model drives.
func (m Model) Engine() engine.Engine {
	return m.sim
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/wricardo/drone-sim/game/engine"
)

// ErrConfigUnavailable wraps a layout lookup failure during session creation
var ErrConfigUnavailable = errors.New("config unavailable")

// droneServiceImpl implements the DroneService interface
type droneServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewDroneService creates a new drone service instance
func NewDroneService(sessions SessionManager, configs ConfigManager) DroneService {
	return &droneServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new drone session over the named layout.
// An empty name selects the default layout.
func (s *droneServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layoutID := configName
	var layout *engine.Layout
	if configName != "" {
		var err error
		layout, err = s.configs.LoadConfig(configName)
		if err != nil {
			available, listErr := s.configs.ListConfigs()
			if listErr == nil && len(available) > 0 {
				ids := make([]string, 0, len(available))
				for _, cfg := range available {
					ids = append(ids, cfg.ConfigID)
				}
				return nil, fmt.Errorf("%w: config '%s' (available: %s): %w",
					ErrConfigUnavailable, configName, strings.Join(ids, ", "), err)
			}
			return nil, fmt.Errorf("%w: config '%s': %w", ErrConfigUnavailable, configName, err)
		}
	} else {
		layout = s.configs.GetDefault()
		layoutID = s.configs.DefaultID()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", layoutID, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("session created", "id", session.ID, "layout", layoutID)
	return sessionInfo(session), nil
}

// GetSession retrieves session information. Touching the access time is a
// write, so it takes the exclusive lock.
func (s *droneServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *droneServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *droneServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.Info("session deleted", "id", sessionID)
	return nil
}

// Move applies an arbitrary delta to a session's drone
func (s *droneServiceImpl) Move(ctx context.Context, sessionID string, delta engine.Delta) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.applyMove(sess, "", delta), nil
}

// MoveDirection applies one of the six named commands to a session's drone
func (s *droneServiceImpl) MoveDirection(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	delta, err := engine.DirectionDelta(direction)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return s.applyMove(sess, strings.ToLower(strings.TrimSpace(direction)), delta), nil
}

// applyMove runs delta through the simulator and builds the result.
// Callers hold s.mu.
func (s *droneServiceImpl) applyMove(sess *Session, direction string, delta engine.Delta) *MoveResult {
	outcome := sess.Simulator.Move(delta)
	state := sess.Simulator.GetState()

	result := &MoveResult{
		Accepted:      outcome.Accepted,
		Reason:        outcome.Reason,
		Direction:     direction,
		Delta:         delta,
		Stationary:    delta.IsZero(),
		From:          outcome.From,
		To:            state.Position,
		Attempted:     outcome.Next,
		Message:       state.Log[0],
		PossibleMoves: possibleMoves(sess.Simulator),
		State:         state,
	}

	if !outcome.Accepted {
		if idx, hit := engine.ObstacleAt(outcome.Next, state.Obstacles); hit {
			result.BlockedBy = &ObstacleRef{Index: idx, Obstacle: state.Obstacles[idx]}
		}
	}

	log.Debug("move applied", "session", sess.ID, "delta", delta, "accepted", outcome.Accepted)
	return result
}

// Reset returns a session's drone to the origin
func (s *droneServiceImpl) Reset(ctx context.Context, sessionID string) (*ResetResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Simulator.Reset()
	log.Debug("drone reset", "session", sess.ID)

	return &ResetResult{
		Message: engine.MsgReset,
		State:   state,
	}, nil
}

// GetState returns the current drone state of a session
func (s *droneServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.DroneState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Simulator.GetState(), nil
}

// DescribeCell reports which obstacle, if any, covers the x-y cell
func (s *droneServiceImpl) DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	pos := sess.Simulator.Position()
	obstacles := sess.Simulator.Obstacles()
	info := &CellInfo{
		X:     x,
		Y:     y,
		Drone: pos.X == x && pos.Y == y,
	}
	if idx, hit := engine.ObstacleAt(engine.Position{X: x, Y: y}, obstacles); hit {
		info.Blocked = true
		info.Obstacle = &ObstacleRef{Index: idx, Obstacle: obstacles[idx]}
	}
	return info, nil
}

// ListConfigs returns all available layouts
func (s *droneServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a layout by name
func (s *droneServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.Layout, error) {
	return s.configs.LoadConfig(configName)
}

// ListCommands returns the six directional commands in display order
func (s *droneServiceImpl) ListCommands(ctx context.Context) []CommandInfo {
	commands := make([]CommandInfo, 0, len(engine.Directions))
	for _, dir := range engine.Directions {
		delta, _ := engine.DirectionDelta(string(dir))
		commands = append(commands, CommandInfo{Name: string(dir), Delta: delta})
	}
	return commands
}

func sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigID:       sess.LayoutID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Simulator.GetState(),
	}
}

func possibleMoves(sim engine.Engine) []string {
	moves := sim.GetPossibleMoves()
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, string(m))
	}
	return out
}

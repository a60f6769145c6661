package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wricardo/drone-sim/game/engine"
	"github.com/wricardo/drone-sim/game/service"
)

var (
	errMockNotFound       = errors.New("session not found")
	errMockConfigNotFound = errors.New("configuration not found")
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, layoutID string, layout *engine.Layout) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	sim, err := engine.NewSimulator(layout)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		LayoutID:       layoutID,
		Simulator:      sim,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errMockNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errMockNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errMockNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	layouts map[string]*engine.Layout
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		layouts: map[string]*engine.Layout{
			"classroom": engine.DefaultLayout(),
			"single": {
				Name:      "Single Desk",
				Obstacles: []engine.Obstacle{{X: 1, Y: 0, Width: 1, Height: 1, Type: engine.Desk}},
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.Layout, error) {
	layout, ok := m.layouts[name]
	if !ok {
		return nil, errMockConfigNotFound
	}
	return layout, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	return []*service.ConfigInfo{
		{ConfigID: "classroom", Name: "classroom", Obstacles: 6},
		{ConfigID: "single", Name: "Single Desk", Obstacles: 1},
	}, nil
}

func (m *MockConfigManager) GetDefault() *engine.Layout {
	return m.layouts["classroom"]
}

func (m *MockConfigManager) DefaultID() string {
	return "classroom"
}

func newTestService() service.DroneService {
	return service.NewDroneService(NewMockSessionManager(), NewMockConfigManager())
}

func TestCreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.ConfigID != "classroom" {
		t.Errorf("Expected default config id, got %q", info.ConfigID)
	}
	if info.State.Position != (engine.Position{}) {
		t.Errorf("Expected drone at origin, got %+v", info.State.Position)
	}
	if len(info.State.Obstacles) != 6 {
		t.Errorf("Expected 6 obstacles, got %d", len(info.State.Obstacles))
	}

	single, err := svc.CreateSession(ctx, "single")
	if err != nil {
		t.Fatalf("CreateSession(single) failed: %v", err)
	}
	if single.ConfigID != "single" || len(single.State.Obstacles) != 1 {
		t.Errorf("Unexpected session %+v", single)
	}
}

func TestCreateSession_UnknownConfig(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateSession(context.Background(), "missing")
	if err == nil {
		t.Fatal("Expected error for unknown config")
	}
	if !errors.Is(err, service.ErrConfigUnavailable) {
		t.Errorf("Expected ErrConfigUnavailable, got %v", err)
	}
	if !errors.Is(err, errMockConfigNotFound) {
		t.Errorf("Expected wrapped config error, got %v", err)
	}
}

func TestMoveDirection(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	result, err := svc.MoveDirection(ctx, info.ID, "Right")
	if err != nil {
		t.Fatalf("MoveDirection failed: %v", err)
	}
	if !result.Accepted {
		t.Fatal("Expected move to be accepted")
	}
	if result.Direction != "right" {
		t.Errorf("Expected normalized direction, got %q", result.Direction)
	}
	if result.To != (engine.Position{X: 1}) {
		t.Errorf("Expected (1,0,0), got %+v", result.To)
	}
	if result.Message != "Moved to (1, 0, 0)" {
		t.Errorf("Unexpected message %q", result.Message)
	}
	if len(result.PossibleMoves) != 5 {
		t.Errorf("Expected 5 possible moves, got %v", result.PossibleMoves)
	}
}

func TestMoveDirection_Errors(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	if _, err := svc.MoveDirection(ctx, info.ID, "sideways"); !errors.Is(err, engine.ErrUnknownDirection) {
		t.Errorf("Expected ErrUnknownDirection, got %v", err)
	}
	if _, err := svc.MoveDirection(ctx, "nope", "up"); !errors.Is(err, errMockNotFound) {
		t.Errorf("Expected session not found, got %v", err)
	}
	// Unknown session wins over a bad direction, matching Move
	if _, err := svc.MoveDirection(ctx, "nope", "sideways"); !errors.Is(err, errMockNotFound) {
		t.Errorf("Expected session not found for unknown session and direction, got %v", err)
	}

	state, _ := svc.GetState(ctx, info.ID)
	if state.TotalCommands != 0 || len(state.Log) != 0 {
		t.Errorf("Rejected commands should not touch the drone, got %+v", state)
	}
}

func TestMove_ZeroDeltaIsStationary(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	svc.MoveDirection(ctx, info.ID, "right")
	result, err := svc.Move(ctx, info.ID, engine.Delta{})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if !result.Accepted || !result.Stationary {
		t.Errorf("Expected accepted stationary move, got accepted=%v stationary=%v", result.Accepted, result.Stationary)
	}
	if result.Message != "Moved to (1, 0, 0)" {
		t.Errorf("Unexpected message %q", result.Message)
	}

	result, _ = svc.Move(ctx, info.ID, engine.Delta{DY: 1})
	if result.Stationary {
		t.Error("A real move should not be stationary")
	}
}

func TestMove_Collision(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	svc.Move(ctx, info.ID, engine.Delta{DX: 1, DY: 1})
	result, err := svc.Move(ctx, info.ID, engine.Delta{DX: 1, DY: 1})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if result.Accepted {
		t.Fatal("Expected collision")
	}
	if result.Reason != engine.ReasonCollision {
		t.Errorf("Expected reason %q, got %q", engine.ReasonCollision, result.Reason)
	}
	if result.Message != engine.MsgCollision {
		t.Errorf("Expected %q, got %q", engine.MsgCollision, result.Message)
	}
	if result.From != result.To || result.To != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("Position should not change: from=%+v to=%+v", result.From, result.To)
	}
	if result.Attempted != (engine.Position{X: 2, Y: 2}) {
		t.Errorf("Expected attempted (2,2,0), got %+v", result.Attempted)
	}
	if result.BlockedBy == nil || result.BlockedBy.Index != 0 {
		t.Errorf("Expected desk 0 to block, got %+v", result.BlockedBy)
	}
}

func TestReset(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	svc.MoveDirection(ctx, info.ID, "right")
	result, err := svc.Reset(ctx, info.ID)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if result.Message != engine.MsgReset {
		t.Errorf("Unexpected message %q", result.Message)
	}
	if result.State.Position != (engine.Position{}) {
		t.Errorf("Expected origin, got %+v", result.State.Position)
	}
	if result.State.Log[0] != engine.MsgReset {
		t.Errorf("Expected reset to be logged first, got %v", result.State.Log)
	}

	if _, err := svc.Reset(ctx, "nope"); err == nil {
		t.Error("Expected error for unknown session")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.CreateSession(ctx, "")
	b, _ := svc.CreateSession(ctx, "")

	svc.MoveDirection(ctx, a.ID, "right")
	svc.MoveDirection(ctx, a.ID, "up")

	stateB, err := svc.GetState(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if stateB.Position != (engine.Position{}) || len(stateB.Log) != 0 {
		t.Errorf("Session %s was affected by moves on %s: %+v", b.ID, a.ID, stateB)
	}
}

func TestDescribeCell(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	info, _ := svc.CreateSession(ctx, "")

	cell, err := svc.DescribeCell(ctx, info.ID, 3, 3)
	if err != nil {
		t.Fatalf("DescribeCell failed: %v", err)
	}
	if !cell.Blocked || cell.Obstacle == nil || cell.Obstacle.Index != 0 {
		t.Errorf("Expected desk 0 at (3,3), got %+v", cell)
	}

	cell, _ = svc.DescribeCell(ctx, info.ID, 1, 0)
	if cell.Blocked || cell.Obstacle != nil {
		t.Errorf("Expected (1,0) to be free, got %+v", cell)
	}

	cell, _ = svc.DescribeCell(ctx, info.ID, 0, 0)
	if !cell.Drone || !cell.Blocked {
		t.Errorf("Expected drone on the covered origin, got %+v", cell)
	}
}

func TestListAndDeleteSessions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.CreateSession(ctx, "")
	svc.CreateSession(ctx, "single")

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}

	if err := svc.DeleteSession(ctx, a.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(ctx, a.ID); err == nil {
		t.Error("Expected deleted session to be gone")
	}
	if err := svc.DeleteSession(ctx, a.ID); err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestListCommands(t *testing.T) {
	commands := newTestService().ListCommands(context.Background())
	if len(commands) != 6 {
		t.Fatalf("Expected 6 commands, got %d", len(commands))
	}
	if commands[0].Name != "up" || commands[0].Delta != (engine.Delta{DY: 1}) {
		t.Errorf("Unexpected first command %+v", commands[0])
	}
	if commands[5].Name != "backward" || commands[5].Delta != (engine.Delta{DZ: -1}) {
		t.Errorf("Unexpected last command %+v", commands[5])
	}
}

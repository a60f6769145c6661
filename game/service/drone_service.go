package service

import (
	"context"
	"time"

	"github.com/wricardo/drone-sim/game/engine"
)

// DroneService defines all simulator operations exposed to the transports
type DroneService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Drone Operations
	Move(ctx context.Context, sessionID string, delta engine.Delta) (*MoveResult, error)
	MoveDirection(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	Reset(ctx context.Context, sessionID string) (*ResetResult, error)

	// Drone State
	GetState(ctx context.Context, sessionID string) (*engine.DroneState, error)
	DescribeCell(ctx context.Context, sessionID string, x, y int) (*CellInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.Layout, error)
	ListCommands(ctx context.Context) []CommandInfo
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, layoutID string, layout *engine.Layout) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles obstacle layout loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.Layout, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.Layout
	DefaultID() string
}

// Session represents one drone owned by one client
type Session struct {
	ID             string
	LayoutID       string
	Simulator      *engine.Simulator
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

package service

import (
	"context"
	"time"

	"terrainwalk/game/config"
	"terrainwalk/game/engine"
)

// SessionInfo is the API-facing summary of a session.
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigID       string              `json:"config_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	State          *engine.PlayerState `json:"state,omitempty"`
}

// GameService defines all game-related operations exposed to transports.
// Commands are asynchronous: Start and Move report whether the command was
// delivered to the engine, not whether it succeeded; results arrive as
// events on a subscription or through Snapshot polling.
type GameService interface {
	// Session management
	CreateSession(ctx context.Context, configID string) (*SessionInfo, error)
	GetSession(ctx context.Context, id string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, id string) error

	// Game commands
	Start(ctx context.Context, id string, delayMs int) (bool, error)
	Move(ctx context.Context, id string, direction engine.Direction) (bool, error)

	// State access
	Snapshot(ctx context.Context, id string) (engine.PlayerState, bool, error)
	WorldMap(ctx context.Context, id string) (*engine.WorldMap, error)
	Subscribe(ctx context.Context, id string) (<-chan engine.Event, func(), error)

	// Configuration
	ListConfigs(ctx context.Context) ([]config.Info, error)
}

package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"terrainwalk/game/config"
	"terrainwalk/game/engine"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session binds one running engine actor to an ID. Each session is an
// independent world: its own map, player state and timers.
type Session struct {
	ID             string
	Engine         *engine.Engine
	Config         *config.MapConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time

	cancel context.CancelFunc
}

// Manager owns session lifecycle: creating an engine goroutine per session
// and tearing it down on delete.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create builds a world from the config, spawns its engine actor, and
// registers the session under the given ID (generated when empty).
func (m *Manager) Create(id string, cfg *config.MapConfig) (*Session, error) {
	if id == "" {
		id = generateSessionID()
	}

	world, err := cfg.WorldMap()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	if _, exists := m.sessions[key]; exists {
		return nil, ErrSessionAlreadyExists
	}

	eng := engine.NewEngine(world)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("session %s: engine stopped: %v", id, err)
		}
	}()

	s := &Session{
		ID:             id,
		Engine:         eng,
		Config:         cfg,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
		cancel:         cancel,
	}
	m.sessions[key] = s
	return s, nil
}

// Get retrieves a session by ID (case-insensitive) and marks it accessed.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[strings.ToLower(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.LastAccessedAt = time.Now()
	return s, nil
}

// List returns all sessions.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// Delete stops a session's engine and removes it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(id)
	s, ok := m.sessions[key]
	if !ok {
		return ErrSessionNotFound
	}
	s.Engine.Stop()
	s.cancel()
	delete(m.sessions, key)
	return nil
}

// CleanupExpired removes sessions that have not been accessed within
// maxAge and returns how many were stopped.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, s := range m.sessions {
		if s.LastAccessedAt.Before(cutoff) {
			s.Engine.Stop()
			s.cancel()
			delete(m.sessions, key)
			removed++
		}
	}
	return removed
}

// Shutdown stops every session's engine.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.sessions {
		s.Engine.Stop()
		s.cancel()
		delete(m.sessions, key)
	}
}

// generateSessionID returns a short random hex ID.
func generateSessionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("150405.000")
	}
	return hex.EncodeToString(b)
}

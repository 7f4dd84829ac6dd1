package service

import (
	"context"
	"fmt"

	"terrainwalk/game/config"
	"terrainwalk/game/engine"
	"terrainwalk/game/session"
)

// gameServiceImpl implements GameService over the session and config
// managers.
type gameServiceImpl struct {
	sessions *session.Manager
	configs  *config.Manager
}

// NewGameService creates a game service instance.
func NewGameService(sessions *session.Manager, configs *config.Manager) GameService {
	return &gameServiceImpl{sessions: sessions, configs: configs}
}

func (s *gameServiceImpl) CreateSession(ctx context.Context, configID string) (*SessionInfo, error) {
	cfg, err := s.configs.Load(configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", configID, err)
	}

	sess, err := s.sessions.Create("", cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return toInfo(sess), nil
}

func (s *gameServiceImpl) GetSession(ctx context.Context, id string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return toInfo(sess), nil
}

func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	infos := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, toInfo(sess))
	}
	return infos, nil
}

func (s *gameServiceImpl) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(id)
}

func (s *gameServiceImpl) Start(ctx context.Context, id string, delayMs int) (bool, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return false, err
	}
	return sess.Engine.Send(engine.Command{Task: engine.TaskStart, DelayMs: delayMs}), nil
}

func (s *gameServiceImpl) Move(ctx context.Context, id string, direction engine.Direction) (bool, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return false, err
	}
	return sess.Engine.Send(engine.Command{Task: engine.TaskMove, Direction: direction}), nil
}

func (s *gameServiceImpl) Snapshot(ctx context.Context, id string) (engine.PlayerState, bool, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return engine.PlayerState{}, false, err
	}
	snap, started := sess.Engine.Snapshot()
	return snap, started, nil
}

func (s *gameServiceImpl) WorldMap(ctx context.Context, id string) (*engine.WorldMap, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	return sess.Engine.World(), nil
}

func (s *gameServiceImpl) Subscribe(ctx context.Context, id string) (<-chan engine.Event, func(), error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, nil, err
	}
	ch := sess.Engine.Subscribe()
	cancel := func() { sess.Engine.Unsubscribe(ch) }
	return ch, cancel, nil
}

func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]config.Info, error) {
	return s.configs.List()
}

func toInfo(sess *session.Session) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		ConfigID:       sess.Config.Name,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
	}
	if snap, ok := sess.Engine.Snapshot(); ok {
		info.State = &snap
	}
	return info
}

package session

import (
	"errors"
	"testing"
	"time"

	"terrainwalk/game/config"
	"terrainwalk/game/engine"
)

func defaultConfig(t *testing.T) *config.MapConfig {
	t.Helper()
	m, err := config.NewManager("")
	if err != nil {
		t.Fatalf("config manager: %v", err)
	}
	return m.Default()
}

func TestCreateAndGet(t *testing.T) {
	m := NewManager()
	defer m.Shutdown()

	s, err := m.Create("", defaultConfig(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == "" {
		t.Fatal("session has no ID")
	}
	if s.Engine == nil {
		t.Fatal("session has no engine")
	}

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != s {
		t.Error("Get returned a different session")
	}
}

func TestGetIsCaseInsensitive(t *testing.T) {
	m := NewManager()
	defer m.Shutdown()

	if _, err := m.Create("Alpha", defaultConfig(t)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Get("ALPHA"); err != nil {
		t.Errorf("Get(ALPHA): %v", err)
	}
}

func TestCreateDuplicate(t *testing.T) {
	m := NewManager()
	defer m.Shutdown()

	cfg := defaultConfig(t)
	if _, err := m.Create("dup", cfg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("dup", cfg); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("duplicate Create = %v, want ErrSessionAlreadyExists", err)
	}
}

func TestSessionEngineIsRunning(t *testing.T) {
	m := NewManager()
	defer m.Shutdown()

	s, err := m.Create("", defaultConfig(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sub := s.Engine.Subscribe()
	if !s.Engine.Send(engine.Command{Task: engine.TaskStart}) {
		t.Fatal("Send(start) failed")
	}

	select {
	case ev := <-sub:
		if ev.State == nil || ev.State.Position.X != engine.SpawnX {
			t.Errorf("unexpected first event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine actor did not process the start command")
	}
}

func TestDelete(t *testing.T) {
	m := NewManager()

	s, err := m.Create("", defaultConfig(t))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sub := s.Engine.Subscribe()

	if err := m.Delete(s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := m.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after delete = %v, want ErrSessionNotFound", err)
	}

	// Deleting stops the engine, which closes subscriptions.
	select {
	case _, ok := <-sub:
		if ok {
			for range sub {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine subscription was not closed on delete")
	}

	if err := m.Delete(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete = %v, want ErrSessionNotFound", err)
	}
}

func TestListAndShutdown(t *testing.T) {
	m := NewManager()
	cfg := defaultConfig(t)

	for i := 0; i < 3; i++ {
		if _, err := m.Create("", cfg); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if got := len(m.List()); got != 3 {
		t.Errorf("List returned %d sessions, want 3", got)
	}

	m.Shutdown()
	if got := len(m.List()); got != 0 {
		t.Errorf("List after Shutdown returned %d sessions, want 0", got)
	}
}

func TestCleanupExpired(t *testing.T) {
	m := NewManager()
	cfg := defaultConfig(t)

	stale, err := m.Create("stale", cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("fresh", cfg); err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer m.Shutdown()

	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := m.CleanupExpired(time.Hour); removed != 1 {
		t.Fatalf("CleanupExpired removed %d sessions, want 1", removed)
	}
	if _, err := m.Get("stale"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale session survived cleanup: %v", err)
	}
	if _, err := m.Get("fresh"); err != nil {
		t.Errorf("fresh session was removed: %v", err)
	}
}

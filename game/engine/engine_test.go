package engine

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestStartRoundTrip(t *testing.T) {
	world := DefaultWorldMap()
	e := NewEngine(world)
	sub := e.Subscribe()
	defer e.teardown()

	e.handleCommand(Command{Task: TaskStart})
	ev, n := drain(sub)
	if n != 1 {
		t.Fatalf("start emitted %d events, want 1", n)
	}

	if ev.Status != StatusProcessing {
		t.Errorf("status %s, want processing", ev.Status)
	}
	if ev.State == nil {
		t.Fatal("start event carries no state snapshot")
	}
	if ev.World == nil {
		t.Fatal("start event carries no world map")
	}

	if ev.State.Position.X != SpawnX || ev.State.Position.Y != SpawnY {
		t.Errorf("spawn position (%d,%d), want (%d,%d)", ev.State.Position.X, ev.State.Position.Y, SpawnX, SpawnY)
	}
	if ev.State.Facing != Down {
		t.Errorf("facing %s, want down", ev.State.Facing)
	}
	if ev.State.IdleState != IdleActive {
		t.Errorf("idle state %s, want active", ev.State.IdleState)
	}
	if ev.State.CurrentTerrain != world.At(SpawnX, SpawnY) {
		t.Errorf("terrain %s, want %s", ev.State.CurrentTerrain, world.At(SpawnX, SpawnY))
	}

	if snap, ok := e.Snapshot(); !ok || snap.Position != ev.State.Position {
		t.Errorf("published snapshot %v ok=%v does not match start event", snap, ok)
	}
}

func TestStartArmsProgressTask(t *testing.T) {
	e := NewEngine(nil)
	defer e.teardown()

	e.handleCommand(Command{Task: TaskStart, DelayMs: 250})
	if e.progressTimer == nil {
		t.Fatal("start did not arm the progress timer")
	}
	if e.progressDelay != 250*time.Millisecond {
		t.Errorf("progress delay %v, want 250ms", e.progressDelay)
	}

	e.handleCommand(Command{Task: TaskStart})
	if e.progressDelay != DefaultStepDelayMs*time.Millisecond {
		t.Errorf("default progress delay %v, want %dms", e.progressDelay, DefaultStepDelayMs)
	}
}

func TestUnknownCommandEmitsError(t *testing.T) {
	e := NewEngine(nil)
	sub := e.Subscribe()

	e.handleCommand(Command{Task: Task("teleport")})
	ev, n := drain(sub)
	if n != 1 {
		t.Fatalf("got %d events, want 1", n)
	}
	if ev.Status != StatusError {
		t.Errorf("status %s, want error", ev.Status)
	}
	if !strings.Contains(ev.Message, "teleport") {
		t.Errorf("message %q should name the offending task", ev.Message)
	}
	if ev.State != nil {
		t.Error("unknown command must not carry state")
	}
	if _, ok := e.Snapshot(); ok {
		t.Error("unknown command must not publish state")
	}
}

func TestMoveBeforeStartIsRejected(t *testing.T) {
	e := NewEngine(nil)
	sub := e.Subscribe()

	e.handleCommand(Command{Task: TaskMove, Direction: Up})
	ev, _ := drain(sub)
	if ev.Status != StatusError {
		t.Fatalf("status %s, want error", ev.Status)
	}
}

func TestUnknownDirectionIsRejected(t *testing.T) {
	e := placedEngine(DefaultWorldMap(), SpawnX, SpawnY)
	sub := e.Subscribe()

	e.handleCommand(Command{Task: TaskMove, Direction: Direction("diagonal")})
	ev, _ := drain(sub)
	if ev.Status != StatusError {
		t.Fatalf("status %s, want error", ev.Status)
	}
	if e.state.Position.X != SpawnX || e.state.Position.Y != SpawnY {
		t.Error("unknown direction must not move the player")
	}
}

func TestIdleDecayMonotonicity(t *testing.T) {
	e := placedEngine(DefaultWorldMap(), SpawnX, SpawnY)
	sub := e.Subscribe()

	base := time.Now()
	e.state.LastActivity = base

	steps := []struct {
		elapsed time.Duration
		want    IdleState
	}{
		{0, IdleActive},
		{100 * time.Millisecond, IdleActive},
		{RestingAfter, IdleResting},
		{1 * time.Second, IdleResting},
		{IdleAfter, IdleIdle},
		{20 * time.Second, IdleIdle},
		{SleepingAfter, IdleSleeping},
		{5 * time.Minute, IdleSleeping},
	}

	var prev IdleState = IdleActive
	order := map[IdleState]int{IdleActive: 0, IdleResting: 1, IdleIdle: 2, IdleSleeping: 3}

	for _, step := range steps {
		e.now = func() time.Time { return base.Add(step.elapsed) }
		e.decayIdle()

		if e.state.IdleState != step.want {
			t.Errorf("after %v: idle state %s, want %s", step.elapsed, e.state.IdleState, step.want)
		}
		if order[e.state.IdleState] < order[prev] {
			t.Errorf("idle state regressed from %s to %s without activity", prev, e.state.IdleState)
		}
		prev = e.state.IdleState
	}

	// Each transition emits exactly one notification: active->resting,
	// resting->idle, idle->sleeping.
	if _, n := drain(sub); n != 3 {
		t.Errorf("decay emitted %d events, want 3", n)
	}
}

func TestActivityResetsIdleStateDirectly(t *testing.T) {
	e := placedEngine(DefaultWorldMap(), SpawnX, SpawnY)
	sub := e.Subscribe()

	base := time.Now()
	e.state.LastActivity = base.Add(-2 * SleepingAfter)
	e.now = func() time.Time { return base }
	e.decayIdle()
	if e.state.IdleState != IdleSleeping {
		t.Fatalf("idle state %s, want sleeping", e.state.IdleState)
	}

	// A move resets straight to active, not through intermediate states.
	e.handleCommand(Command{Task: TaskMove, Direction: Up})
	if e.state.IdleState != IdleActive {
		t.Errorf("idle state %s after move, want active", e.state.IdleState)
	}
	if !e.state.LastActivity.Equal(base) {
		t.Errorf("move did not reset the activity timestamp")
	}
	drain(sub)
}

func TestIdleDecayStableStateEmitsNothing(t *testing.T) {
	e := placedEngine(DefaultWorldMap(), SpawnX, SpawnY)
	sub := e.Subscribe()

	e.decayIdle()
	e.decayIdle()
	if _, n := drain(sub); n != 0 {
		t.Errorf("stable idle state emitted %d events, want 0", n)
	}
}

func TestProgressTaskFinishes(t *testing.T) {
	e := NewEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := e.Subscribe()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	if !e.Send(Command{Task: TaskStart, DelayMs: 10}) {
		t.Fatal("Send(start) failed")
	}

	deadline := time.After(10 * time.Second)
	progressTicks := 0
	finished := 0
	var result int

	for finished == 0 {
		select {
		case ev, ok := <-sub:
			if !ok {
				t.Fatal("subscription closed before progress finished")
			}
			if ev.ProgressTotal == 0 {
				continue // state or idle-decay event, not a progress tick
			}
			progressTicks++
			if ev.Status == StatusFinished {
				finished++
				result = ev.ProgressResult
			}
		case <-deadline:
			t.Fatalf("progress did not finish (saw %d ticks)", progressTicks)
		}
	}

	if progressTicks != ProgressTotalSteps {
		t.Errorf("saw %d progress ticks, want %d", progressTicks, ProgressTotalSteps)
	}
	if result != 10*ProgressTotalSteps {
		t.Errorf("progress result %d, want %d", result, 10*ProgressTotalSteps)
	}

	// No second finished event may follow.
	extra := time.After(100 * time.Millisecond)
	for {
		select {
		case ev, ok := <-sub:
			if ok && ev.Status == StatusFinished {
				t.Fatal("saw a second finished event")
			}
			if !ok {
				t.Fatal("subscription closed unexpectedly")
			}
		case <-extra:
			e.Stop()
			if err := <-done; err != nil {
				t.Fatalf("Run returned %v", err)
			}
			return
		}
	}
}

func TestMovementResponsiveDuringProgress(t *testing.T) {
	e := NewEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := e.Subscribe()
	go e.Run(ctx)
	defer e.Stop()

	e.Send(Command{Task: TaskStart, DelayMs: 50})
	e.Send(Command{Task: TaskMove, Direction: Up})

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-sub:
			if !ok {
				t.Fatal("subscription closed")
			}
			if strings.HasPrefix(ev.Message, "Moved up") {
				return // move processed while progress task pending
			}
		case <-deadline:
			t.Fatal("move was not processed while the progress task ran")
		}
	}
}

func TestStopClosesSubscribers(t *testing.T) {
	e := NewEngine(nil)
	ctx := context.Background()

	sub := e.Subscribe()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	e.Stop()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	select {
	case _, ok := <-sub:
		if ok {
			// Drain any buffered event; the channel must end up closed.
			for range sub {
			}
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber channel was not closed on stop")
	}

	if e.Send(Command{Task: TaskMove, Direction: Up}) {
		t.Error("Send should report undeliverable after stop")
	}
}

func TestUnsubscribe(t *testing.T) {
	e := NewEngine(nil)
	sub := e.Subscribe()
	e.Unsubscribe(sub)

	if _, ok := <-sub; ok {
		t.Error("unsubscribed channel should be closed")
	}

	// Emitting after unsubscribe must not panic.
	e.emit(Event{Status: StatusIdle})
}

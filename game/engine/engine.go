package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Engine is the authoritative state machine for one player token. All state
// mutations happen sequentially inside Run's goroutine; callers interact
// only through the command inbox and event subscriptions, never through
// shared memory.
type Engine struct {
	world *WorldMap

	state   PlayerState
	started bool

	inbox chan Command
	stop  chan struct{}

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool

	// Latest state snapshot, published after every mutation so synchronous
	// readers (REST handlers, tests) never touch loop-owned state.
	snapshot atomic.Value

	// now is replaceable in tests.
	now func() time.Time

	progressDelay time.Duration
	progressStep  int
	progressTimer *time.Timer
}

// NewEngine creates an engine over the given world map. A nil map selects
// the bundled reference map.
func NewEngine(world *WorldMap) *Engine {
	if world == nil {
		world = DefaultWorldMap()
	}
	return &Engine{
		world: world,
		inbox: make(chan Command, 64),
		stop:  make(chan struct{}),
		subs:  make(map[chan Event]struct{}),
		now:   time.Now,
	}
}

// World returns the immutable world map.
func (e *Engine) World() *WorldMap {
	return e.world
}

// Inbox returns the command channel. Prefer Send, which never blocks.
func (e *Engine) Inbox() chan<- Command {
	return e.inbox
}

// Send delivers a command to the engine without blocking. It reports false
// when the engine is gone or its inbox is full; undeliverable commands are
// dropped, never queued elsewhere.
func (e *Engine) Send(cmd Command) bool {
	select {
	case <-e.stop:
		return false
	default:
	}
	select {
	case e.inbox <- cmd:
		return true
	default:
		return false
	}
}

// Subscribe registers an event channel scoped to the engine's lifetime.
// The channel is closed when the engine stops. Slow subscribers lose
// events rather than blocking the engine.
func (e *Engine) Subscribe() chan Event {
	ch := make(chan Event, 64)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch
	}
	e.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (e *Engine) Unsubscribe(ch chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.subs[ch]; ok {
		delete(e.subs, ch)
		close(ch)
	}
}

// Snapshot returns the most recently published player state. The bool is
// false until the first start command has been processed.
func (e *Engine) Snapshot() (PlayerState, bool) {
	v := e.snapshot.Load()
	if v == nil {
		return PlayerState{}, false
	}
	return v.(PlayerState), true
}

// Stop tears the engine down: Run returns, the idle-decay ticker and
// progress timer are cleared, and all subscriber channels are closed.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.stop)
	}
}

// Run drains the command inbox and drives the idle-decay ticker and the
// demo progress task until the context is canceled or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	idle := time.NewTicker(IdleTickPeriod)
	defer idle.Stop()
	defer e.teardown()

	for {
		var progressC <-chan time.Time
		if e.progressTimer != nil {
			progressC = e.progressTimer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.stop:
			return nil
		case cmd := <-e.inbox:
			e.handleCommand(cmd)
		case <-idle.C:
			e.decayIdle()
		case <-progressC:
			e.progressTick()
		}
	}
}

func (e *Engine) teardown() {
	if e.progressTimer != nil {
		e.progressTimer.Stop()
		e.progressTimer = nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for ch := range e.subs {
		close(ch)
		delete(e.subs, ch)
	}
}

// handleCommand dispatches one command. Unrecognized tasks are reported as
// error events and leave the player state untouched.
func (e *Engine) handleCommand(cmd Command) {
	switch cmd.Task {
	case TaskStart:
		e.handleStart(cmd)
	case TaskMove:
		e.handleMove(cmd)
	default:
		e.emit(Event{
			Status:  StatusError,
			Message: fmt.Sprintf("unknown command task %q", string(cmd.Task)),
		})
	}
}

func (e *Engine) handleStart(cmd Command) {
	spawn := Position{X: SpawnX, Y: SpawnY}
	e.state = PlayerState{
		Position:       spawn,
		Facing:         Down,
		CurrentTerrain: e.world.At(spawn.X, spawn.Y),
		IdleState:      IdleActive,
		LastActivity:   e.now(),
		Message:        fmt.Sprintf("Welcome! You are standing on %s.", DisplayName(e.world.At(spawn.X, spawn.Y))),
	}
	e.started = true

	e.emit(Event{
		Status:  StatusProcessing,
		Message: e.state.Message,
		State:   e.snap(),
		World:   e.world,
	})

	e.startProgress(cmd.DelayMs)
}

func (e *Engine) handleMove(cmd Command) {
	if !e.started {
		e.emit(Event{Status: StatusError, Message: "cannot move: engine not started"})
		return
	}

	dx, dy, ok := cmd.Direction.Delta()
	if !ok {
		e.emit(Event{
			Status:  StatusError,
			Message: fmt.Sprintf("unknown direction %q", string(cmd.Direction)),
		})
		return
	}

	// Any accepted command is activity, even one that ends up blocked.
	e.state.LastActivity = e.now()
	e.state.IdleState = IdleActive
	e.state.Facing = cmd.Direction

	target := Position{X: e.state.Position.X + dx, Y: e.state.Position.Y + dy}
	if blockedBy, blocked := e.blockedAt(target); blocked {
		e.state.IsMoving = false
		e.state.Message = fmt.Sprintf("Cannot move %s - blocked by %s", cmd.Direction, blockedBy)
		e.emit(Event{Status: StatusError, Message: e.state.Message, State: e.snap()})
		return
	}

	from := DisplayName(e.state.CurrentTerrain)
	e.state.Position = target
	e.state.CurrentTerrain = e.world.At(target.X, target.Y)
	e.state.IsMoving = true
	e.state.Message = fmt.Sprintf("Moved %s from %s to %s", cmd.Direction, from, DisplayName(e.state.CurrentTerrain))
	e.emit(Event{Status: StatusProcessing, Message: e.state.Message, State: e.snap()})
}

// decayIdle recomputes the idle state from inactivity time. It emits a
// state-changed notification only on an actual transition.
func (e *Engine) decayIdle() {
	if !e.started {
		return
	}
	next := IdleStateFor(e.now().Sub(e.state.LastActivity))
	if next == e.state.IdleState {
		return
	}
	e.state.IdleState = next
	e.state.Message = idleMessage(next)
	e.emit(Event{Status: StatusProcessing, Message: e.state.Message, State: e.snap()})
}

func idleMessage(s IdleState) string {
	switch s {
	case IdleResting:
		return "Player is resting"
	case IdleIdle:
		return "Player is idle"
	case IdleSleeping:
		return "Player fell asleep"
	default:
		return "Player is active"
	}
}

// startProgress (re)arms the demo progress task. The task exists to prove
// the channel tolerates interleaved unrelated event streams; movement stays
// responsive because steps are scheduled on a timer instead of sleeping.
func (e *Engine) startProgress(delayMs int) {
	if delayMs <= 0 {
		delayMs = DefaultStepDelayMs
	}
	e.progressDelay = time.Duration(delayMs) * time.Millisecond
	e.progressStep = 0
	if e.progressTimer != nil {
		e.progressTimer.Stop()
	}
	e.progressTimer = time.NewTimer(e.progressDelay)
}

func (e *Engine) progressTick() {
	e.progressStep++
	if e.progressStep < ProgressTotalSteps {
		e.emit(Event{
			Status:        StatusProcessing,
			ProgressStep:  e.progressStep,
			ProgressTotal: ProgressTotalSteps,
		})
		e.progressTimer.Reset(e.progressDelay)
		return
	}

	e.emit(Event{
		Status:         StatusFinished,
		ProgressStep:   e.progressStep,
		ProgressTotal:  ProgressTotalSteps,
		ProgressResult: int(e.progressDelay/time.Millisecond) * ProgressTotalSteps,
	})
	e.progressTimer.Stop()
	e.progressTimer = nil
}

// snap returns an immutable copy of the player state for subscribers.
func (e *Engine) snap() *PlayerState {
	s := e.state
	return &s
}

// emit publishes the snapshot and fans the event out to all subscribers.
// A subscriber with a full buffer misses the event; the engine never blocks
// on a consumer.
func (e *Engine) emit(ev Event) {
	if ev.State != nil {
		e.snapshot.Store(*ev.State)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

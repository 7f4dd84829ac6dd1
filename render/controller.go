package render

import (
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"terrainwalk/game/engine"
)

// animInterval caps how often animation state advances between frames.
const animInterval = 16 * time.Millisecond

// Settings toggles the ambient animation layers.
type Settings struct {
	CloudsEnabled bool
	WavesEnabled  bool
	RiverEnabled  bool
}

// DefaultSettings enables every animation layer.
func DefaultSettings() Settings {
	return Settings{CloudsEnabled: true, WavesEnabled: true, RiverEnabled: true}
}

var keyBindings = map[ebiten.Key]engine.Direction{
	ebiten.KeyArrowUp:    engine.Up,
	ebiten.KeyArrowDown:  engine.Down,
	ebiten.KeyArrowLeft:  engine.Left,
	ebiten.KeyArrowRight: engine.Right,
	ebiten.KeyW:          engine.Up,
	ebiten.KeyS:          engine.Down,
	ebiten.KeyA:          engine.Left,
	ebiten.KeyD:          engine.Right,
}

// Controller is the ebiten game loop. It owns a local copy of the world
// and player state, merged from engine events, and throttles full frame
// rasters according to the player's idle state.
type Controller struct {
	send        func(engine.Command) bool
	events      <-chan engine.Event
	unsubscribe func()

	world     *engine.WorldMap
	state     engine.PlayerState
	haveState bool
	lastError string

	settings   Settings
	clouds     *CloudSet
	wavePhase  phase
	riverPhase phase

	frame      *ebiten.Image
	lastAnim   time.Time
	lastRaster time.Time
	lastMove   time.Time

	running      bool
	disconnected bool

	// OnEvent, when set, is invoked for every engine event the controller
	// merges. Used by server mode to relay progress to connected clients.
	OnEvent func(engine.Event)

	now func() time.Time
}

// NewController wires a controller to a running engine. The controller
// subscribes to engine events; call Shutdown to release the subscription.
func NewController(eng *engine.Engine, settings Settings) *Controller {
	events := eng.Subscribe()
	c := &Controller{
		send:        eng.Send,
		events:      events,
		unsubscribe: func() { eng.Unsubscribe(events) },
		settings:    settings,
		wavePhase:   phase{period: wavePeriod},
		riverPhase:  phase{period: riverPeriod},
		now:         time.Now,
	}
	return c
}

// Start marks the controller running and asks the engine to begin the demo
// progress task. The first Processing event carries the world layout.
func (c *Controller) Start() {
	c.running = true
	c.send(engine.Command{Task: engine.TaskStart, DelayMs: engine.DefaultStepDelayMs})
}

// Shutdown stops input handling and releases the event subscription.
func (c *Controller) Shutdown() {
	c.running = false
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Update implements ebiten.Game. It drains pending engine events, handles
// movement input, and advances animations at most once per animInterval.
func (c *Controller) Update() error {
	now := c.now()
	c.drainEvents()
	c.handleInput(now)

	if c.lastAnim.IsZero() {
		c.lastAnim = now
	}
	if dt := now.Sub(c.lastAnim); dt >= animInterval {
		c.advanceAnimations(dt.Seconds())
		c.lastAnim = now
	}

	// The engine leaves IsMoving set after a successful step; clear it
	// locally once the cooldown has elapsed so the sprite settles.
	if c.state.IsMoving && now.Sub(c.lastMove) >= engine.MoveCooldown {
		c.state.IsMoving = false
	}
	return nil
}

// drainEvents merges every queued engine event without blocking. A closed
// event channel marks the controller disconnected; the stale frame keeps
// rendering.
func (c *Controller) drainEvents() {
	for c.events != nil {
		select {
		case ev, ok := <-c.events:
			if !ok {
				c.events = nil
				c.disconnected = true
				return
			}
			c.mergeEvent(ev)
		default:
			return
		}
	}
}

func (c *Controller) mergeEvent(ev engine.Event) {
	if ev.World != nil {
		c.world = ev.World
		if c.clouds == nil {
			w := float64(c.world.Width * engine.TileSize)
			h := float64(c.world.Height * engine.TileSize)
			c.clouds = NewCloudSet(w, h, rand.New(rand.NewSource(time.Now().UnixNano())))
		}
	}
	if ev.State != nil {
		c.state = *ev.State
		c.haveState = true
	}
	if ev.Status == engine.StatusError {
		c.lastError = ev.Message
	} else {
		c.lastError = ""
	}
	if c.OnEvent != nil {
		c.OnEvent(ev)
	}
}

func (c *Controller) handleInput(now time.Time) {
	for key, dir := range keyBindings {
		if inpututil.IsKeyJustPressed(key) {
			c.TryMove(dir, now)
		}
	}
}

// TryMove sends a move command unless the controller is stopped,
// disconnected, or still inside the move cooldown window. It reports
// whether the command was dispatched.
func (c *Controller) TryMove(dir engine.Direction, now time.Time) bool {
	if !c.running || c.disconnected {
		return false
	}
	if !c.lastMove.IsZero() && now.Sub(c.lastMove) < engine.MoveCooldown {
		return false
	}
	if !c.send(engine.Command{Task: engine.TaskMove, Direction: dir}) {
		return false
	}
	c.lastMove = now
	return true
}

func (c *Controller) advanceAnimations(dt float64) {
	if c.settings.CloudsEnabled && c.clouds != nil {
		c.clouds.Advance(dt)
	}
	c.wavePhase.Advance(dt, c.settings.WavesEnabled)
	c.riverPhase.Advance(dt, c.settings.RiverEnabled)
}

// rasterInterval maps the player's idle state to a minimum delay between
// full frame rasters. Deeper idle states redraw less often.
func rasterInterval(s engine.IdleState) time.Duration {
	switch s {
	case engine.IdleResting:
		return time.Second / 20
	case engine.IdleIdle:
		return time.Second / 10
	case engine.IdleSleeping:
		return time.Second / 5
	default:
		return time.Second / 30
	}
}

// Draw implements ebiten.Game. The scene is rastered into a cached
// offscreen image no more often than the idle-state interval allows; every
// call blits the cached frame.
func (c *Controller) Draw(screen *ebiten.Image) {
	if c.world == nil {
		return
	}
	w := c.world.Width * engine.TileSize
	h := c.world.Height * engine.TileSize
	if c.frame == nil || c.frame.Bounds().Dx() != w || c.frame.Bounds().Dy() != h {
		c.frame = ebiten.NewImage(w, h)
		c.lastRaster = time.Time{}
	}

	now := c.now()
	if c.lastRaster.IsZero() || now.Sub(c.lastRaster) >= rasterInterval(c.state.IdleState) {
		DrawFrame(c.frame, Frame{
			World:      c.world,
			State:      c.state,
			HaveState:  c.haveState,
			Clouds:     c.cloudList(),
			WavePhase:  c.wavePhase.Value(),
			RiverPhase: c.riverPhase.Value(),
			Settings:   c.settings,
			Now:        now,
		})
		c.lastRaster = now
	}
	screen.DrawImage(c.frame, nil)
}

func (c *Controller) cloudList() []Cloud {
	if !c.settings.CloudsEnabled || c.clouds == nil {
		return nil
	}
	return c.clouds.Clouds()
}

// Layout implements ebiten.Game. The canvas is fixed at one tile per map
// cell regardless of the outer window size.
func (c *Controller) Layout(outsideWidth, outsideHeight int) (int, int) {
	if c.world == nil {
		return engine.TileSize, engine.TileSize
	}
	return c.world.Width * engine.TileSize, c.world.Height * engine.TileSize
}

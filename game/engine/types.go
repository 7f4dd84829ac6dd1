package engine

import "time"

// TerrainKind represents the categorical type of a terrain tile
type TerrainKind string

const (
	Water     TerrainKind = "water"
	Beach     TerrainKind = "beach"
	Forest    TerrainKind = "forest"
	Mountain  TerrainKind = "mountain"
	Grassland TerrainKind = "grassland"
	River     TerrainKind = "river"
	Swamp     TerrainKind = "swamp"
	Hills     TerrainKind = "hills"
)

// Direction represents a movement or facing direction
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Delta returns the unit grid vector for a direction. Unknown directions
// return ok=false.
func (d Direction) Delta() (dx, dy int, ok bool) {
	switch d {
	case Up:
		return 0, -1, true
	case Down:
		return 0, 1, true
	case Left:
		return -1, 0, true
	case Right:
		return 1, 0, true
	default:
		return 0, 0, false
	}
}

// IdleState classifies how long the player has been inactive
type IdleState string

const (
	IdleActive   IdleState = "active"
	IdleResting  IdleState = "resting"
	IdleIdle     IdleState = "idle"
	IdleSleeping IdleState = "sleeping"
)

// Inactivity thresholds for idle-state decay, ordered by duration.
const (
	RestingAfter  = 200 * time.Millisecond
	IdleAfter     = 5 * time.Second
	SleepingAfter = 30 * time.Second
)

// IdleStateFor maps an inactivity duration onto the ordered idle states.
func IdleStateFor(inactive time.Duration) IdleState {
	switch {
	case inactive >= SleepingAfter:
		return IdleSleeping
	case inactive >= IdleAfter:
		return IdleIdle
	case inactive >= RestingAfter:
		return IdleResting
	default:
		return IdleActive
	}
}

const (
	// SpawnX and SpawnY are the fixed spawn position used by the start command.
	SpawnX = 2
	SpawnY = 2

	// MoveCooldown is the minimum time between accepted move commands,
	// enforced on the caller side before a command is sent.
	MoveCooldown = 200 * time.Millisecond

	// IdleTickPeriod is how often the engine re-evaluates the idle state.
	IdleTickPeriod = 500 * time.Millisecond

	// ProgressTotalSteps is the length of the demo progress task started
	// alongside the engine.
	ProgressTotalSteps = 100

	// DefaultStepDelayMs is the default per-step delay of the progress task.
	DefaultStepDelayMs = 100

	// TileSize is the size of one terrain tile in logical pixels.
	TileSize = 40
)

// Position represents x,y grid coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PlayerState is the engine-owned player state. Subscribers only ever see
// value copies of it, never the engine's own instance.
type PlayerState struct {
	Position       Position    `json:"position"`
	Facing         Direction   `json:"facing"`
	IsMoving       bool        `json:"is_moving"`
	CurrentTerrain TerrainKind `json:"current_terrain"`
	IdleState      IdleState   `json:"idle_state"`
	LastActivity   time.Time   `json:"last_activity"`
	Message        string      `json:"message"`
}

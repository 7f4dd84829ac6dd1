package render

import (
	"math"
	"math/rand"
)

const (
	// CloudCount is the fixed number of clouds alive at any time.
	CloudCount = 8

	// wavePeriod and riverPeriod are the seconds per full phase cycle.
	wavePeriod  = 2.4
	riverPeriod = 1.1
)

// Cloud is an ephemeral render-only entity. Clouds drift rightward and are
// recycled in place once they leave the canvas.
type Cloud struct {
	X       float64
	Y       float64
	Speed   float64 // pixels per second, rightward
	Size    float64
	Opacity float64
}

// CloudSet owns exactly CloudCount clouds over a canvas of the given size.
type CloudSet struct {
	clouds [CloudCount]Cloud
	width  float64
	height float64
	rng    *rand.Rand
}

// NewCloudSet seeds a cloud set scattered across the canvas. The rng is
// injected so tests stay deterministic.
func NewCloudSet(width, height float64, rng *rand.Rand) *CloudSet {
	cs := &CloudSet{width: width, height: height, rng: rng}
	for i := range cs.clouds {
		c := cs.spawn()
		// Initial clouds start anywhere, not just off-screen left.
		c.X = rng.Float64() * width
		cs.clouds[i] = c
	}
	return cs
}

// spawn returns a fresh cloud originating off-screen to the left.
func (cs *CloudSet) spawn() Cloud {
	size := 24 + cs.rng.Float64()*40
	return Cloud{
		X:       -size - cs.rng.Float64()*60,
		Y:       cs.rng.Float64() * cs.height * 0.5,
		Speed:   6 + cs.rng.Float64()*14,
		Size:    size,
		Opacity: 0.35 + cs.rng.Float64()*0.35,
	}
}

// Advance moves every cloud by dt seconds. A cloud whose leading edge
// passes the right canvas edge is replaced in its slot by a fresh cloud,
// preserving the fixed count.
func (cs *CloudSet) Advance(dt float64) {
	for i := range cs.clouds {
		cs.clouds[i].X += cs.clouds[i].Speed * dt
		if cs.clouds[i].X-cs.clouds[i].Size > cs.width {
			cs.clouds[i] = cs.spawn()
		}
	}
}

// Clouds returns a copy of the current cloud slots.
func (cs *CloudSet) Clouds() []Cloud {
	out := make([]Cloud, CloudCount)
	copy(out, cs.clouds[:])
	return out
}

// phase accumulates an angular offset that wraps modulo 2π. It only
// advances while enabled and snaps back to zero when disabled.
type phase struct {
	value  float64
	period float64
}

func (p *phase) Advance(dt float64, enabled bool) {
	if !enabled {
		p.value = 0
		return
	}
	p.value = math.Mod(p.value+dt*2*math.Pi/p.period, 2*math.Pi)
}

func (p *phase) Value() float64 { return p.value }

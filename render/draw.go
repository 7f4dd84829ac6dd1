package render

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"terrainwalk/game/engine"
)

// Frame bundles everything DrawFrame needs to raster one scene. DrawFrame
// itself holds no state; the controller owns throttling and caching.
type Frame struct {
	World      *engine.WorldMap
	State      engine.PlayerState
	HaveState  bool
	Clouds     []Cloud
	WavePhase  float64
	RiverPhase float64
	Settings   Settings
	Now        time.Time
}

func terrainFill(kind engine.TerrainKind) color.RGBA {
	switch kind {
	case engine.Water:
		return color.RGBA{30, 105, 180, 255} // Deep blue
	case engine.Beach:
		return color.RGBA{238, 214, 150, 255} // Sand
	case engine.Forest:
		return color.RGBA{34, 120, 52, 255} // Dark green
	case engine.Mountain:
		return color.RGBA{120, 120, 130, 255} // Gray rock
	case engine.Grassland:
		return color.RGBA{110, 185, 80, 255} // Green
	case engine.River:
		return color.RGBA{70, 150, 210, 255} // Light blue
	case engine.Swamp:
		return color.RGBA{90, 105, 60, 255} // Murky olive
	case engine.Hills:
		return color.RGBA{150, 170, 95, 255} // Dry green
	default:
		return color.RGBA{0, 0, 0, 255}
	}
}

// DrawFrame rasters the full scene into dst: a base-color pass over every
// cell, a detail pass that skips the player's cell, the player sprite, and
// clouds on top of everything.
func DrawFrame(dst *ebiten.Image, f Frame) {
	if f.World == nil {
		return
	}
	ts := float64(engine.TileSize)

	for y := 0; y < f.World.Height; y++ {
		for x := 0; x < f.World.Width; x++ {
			fill := terrainFill(f.World.At(x, y))
			ebitenutil.DrawRect(dst, float64(x)*ts, float64(y)*ts, ts, ts, fill)
		}
	}

	for y := 0; y < f.World.Height; y++ {
		for x := 0; x < f.World.Width; x++ {
			if f.HaveState && f.State.Position.X == x && f.State.Position.Y == y {
				continue
			}
			drawDetail(dst, f, x, y)
		}
	}

	if f.HaveState {
		drawPlayer(dst, f)
	}

	for _, c := range f.Clouds {
		drawCloud(dst, c)
	}
}

func drawDetail(dst *ebiten.Image, f Frame, x, y int) {
	ts := float64(engine.TileSize)
	px := float64(x) * ts
	py := float64(y) * ts

	switch f.World.At(x, y) {
	case engine.Forest:
		// Two canopies with trunks.
		trunk := color.RGBA{95, 65, 35, 255}
		canopy := color.RGBA{20, 90, 38, 255}
		ebitenutil.DrawRect(dst, px+6, py+22, 4, 10, trunk)
		ebitenutil.DrawRect(dst, px+2, py+10, 12, 14, canopy)
		ebitenutil.DrawRect(dst, px+24, py+26, 4, 8, trunk)
		ebitenutil.DrawRect(dst, px+20, py+16, 12, 12, canopy)
	case engine.Mountain:
		peak := color.RGBA{90, 90, 100, 255}
		snow := color.RGBA{235, 235, 240, 255}
		ebitenutil.DrawRect(dst, px+8, py+16, 24, 18, peak)
		ebitenutil.DrawRect(dst, px+14, py+8, 12, 10, peak)
		ebitenutil.DrawRect(dst, px+16, py+6, 8, 5, snow)
	case engine.Hills:
		ridge := color.RGBA{170, 190, 110, 255}
		ebitenutil.DrawRect(dst, px+4, py+20, 14, 6, ridge)
		ebitenutil.DrawRect(dst, px+22, py+26, 12, 5, ridge)
	case engine.Swamp:
		pool := color.RGBA{55, 70, 75, 255}
		reed := color.RGBA{60, 90, 40, 255}
		ebitenutil.DrawRect(dst, px+6, py+24, 14, 6, pool)
		ebitenutil.DrawRect(dst, px+26, py+10, 2, 12, reed)
		ebitenutil.DrawRect(dst, px+30, py+12, 2, 10, reed)
	case engine.Water:
		if f.Settings.WavesEnabled {
			crest := color.RGBA{160, 205, 240, 200}
			for row := 0; row < 3; row++ {
				offset := math.Sin(f.WavePhase+float64(y+row)*0.9) * 5
				ebitenutil.DrawRect(dst, px+8+offset, py+8+float64(row)*11, 16, 2, crest)
			}
		}
	case engine.River:
		if f.Settings.RiverEnabled {
			flow := color.RGBA{180, 220, 245, 220}
			// Dashes slide downstream with the phase.
			shift := math.Mod(f.RiverPhase/(2*math.Pi), 1) * ts
			for _, base := range []float64{4, 22} {
				fy := py + math.Mod(base+shift, ts-4)
				ebitenutil.DrawRect(dst, px+10, fy, 3, 8, flow)
				ebitenutil.DrawRect(dst, px+26, fy+6, 3, 8, flow)
			}
		}
	case engine.Grassland:
		if (x+y)%3 == 0 {
			tuft := color.RGBA{80, 150, 60, 255}
			ebitenutil.DrawRect(dst, px+10, py+26, 2, 6, tuft)
			ebitenutil.DrawRect(dst, px+14, py+24, 2, 8, tuft)
			ebitenutil.DrawRect(dst, px+26, py+28, 2, 5, tuft)
		}
	}
}

func drawPlayer(dst *ebiten.Image, f Frame) {
	ts := float64(engine.TileSize)
	px := float64(f.State.Position.X) * ts
	py := float64(f.State.Position.Y) * ts

	bounce := 0.0
	if f.State.IsMoving {
		bounce = math.Abs(math.Sin(float64(f.Now.UnixMilli())/90)) * 5
	}

	body := color.RGBA{200, 60, 50, 255}
	skin := color.RGBA{245, 205, 170, 255}
	eye := color.RGBA{30, 30, 30, 255}

	ebitenutil.DrawRect(dst, px+12, py+16-bounce, 16, 18, body)
	ebitenutil.DrawRect(dst, px+14, py+6-bounce, 12, 12, skin)

	// Eye placement follows facing; facing up shows the back of the head.
	switch f.State.Facing {
	case engine.Left:
		ebitenutil.DrawRect(dst, px+15, py+10-bounce, 3, 3, eye)
	case engine.Right:
		ebitenutil.DrawRect(dst, px+22, py+10-bounce, 3, 3, eye)
	case engine.Down:
		ebitenutil.DrawRect(dst, px+16, py+10-bounce, 3, 3, eye)
		ebitenutil.DrawRect(dst, px+21, py+10-bounce, 3, 3, eye)
	}
}

func drawCloud(dst *ebiten.Image, c Cloud) {
	alpha := uint8(math.Min(c.Opacity, 1) * 255)
	puff := color.RGBA{255, 255, 255, alpha}
	ebitenutil.DrawRect(dst, c.X, c.Y+c.Size*0.25, c.Size, c.Size*0.4, puff)
	ebitenutil.DrawRect(dst, c.X+c.Size*0.2, c.Y, c.Size*0.6, c.Size*0.45, puff)
	ebitenutil.DrawRect(dst, c.X+c.Size*0.55, c.Y+c.Size*0.15, c.Size*0.4, c.Size*0.35, puff)
}

package engine

import "fmt"

// WorldMap is a fixed rectangular grid of terrain kinds, row-major.
// It is immutable after construction.
type WorldMap struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Cells  [][]TerrainKind `json:"cells"`
}

// InBounds reports whether the coordinates lie inside the grid.
func (m *WorldMap) InBounds(x, y int) bool {
	return y >= 0 && y < m.Height && x >= 0 && x < m.Width
}

// At returns the terrain kind at the given coordinates. Out-of-bounds
// lookups resolve to Water so they are always impassable.
func (m *WorldMap) At(x, y int) TerrainKind {
	if !m.InBounds(x, y) {
		return Water
	}
	return m.Cells[y][x]
}

// BuildWorldMap constructs a world map from layout strings and a legend of
// layout character to terrain kind. The map must be rectangular, every
// character must appear in the legend, and all border cells must be
// impassable so movement can never logically escape the grid.
func BuildWorldMap(layout []string, legend map[string]TerrainKind) (*WorldMap, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("map validation: layout is empty")
	}

	width := len(layout[0])
	height := len(layout)
	if width == 0 {
		return nil, fmt.Errorf("map validation: layout rows are empty")
	}

	for key, kind := range legend {
		if len(key) != 1 {
			return nil, fmt.Errorf("map validation: legend key %q must be a single character", key)
		}
		if _, known := terrainTable[kind]; !known {
			return nil, fmt.Errorf("map validation: legend[%q] names unknown terrain %q", key, kind)
		}
	}

	cells := make([][]TerrainKind, height)
	for y, row := range layout {
		if len(row) != width {
			return nil, fmt.Errorf("map validation: row %d has %d cells, want %d", y+1, len(row), width)
		}
		cells[y] = make([]TerrainKind, width)
		for x := 0; x < width; x++ {
			kind, ok := legend[string(row[x])]
			if !ok {
				return nil, fmt.Errorf("map validation: unknown character %q at row %d, col %d", row[x], y+1, x+1)
			}
			cells[y][x] = kind
		}
	}

	m := &WorldMap{Width: width, Height: height, Cells: cells}

	// The border must be impassable so the player can never reach the edge.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if y != 0 && y != height-1 && x != 0 && x != width-1 {
				continue
			}
			if Walkable(m.Cells[y][x]) {
				return nil, fmt.Errorf("map validation: border cell (%d,%d) is walkable %s", x, y, m.Cells[y][x])
			}
		}
	}

	if !m.InBounds(SpawnX, SpawnY) || !Walkable(m.At(SpawnX, SpawnY)) {
		return nil, fmt.Errorf("map validation: spawn cell (%d,%d) must be walkable", SpawnX, SpawnY)
	}

	return m, nil
}

// DefaultLegend maps the layout characters of bundled maps to terrain kinds.
func DefaultLegend() map[string]TerrainKind {
	return map[string]TerrainKind{
		"W": Water,
		"b": Beach,
		"F": Forest,
		"M": Mountain,
		"G": Grassland,
		"R": River,
		"S": Swamp,
		"H": Hills,
	}
}

// DefaultLayout is the bundled 20x15 island: a water border, a beach ring,
// grassland interior with a forest, a river running south to the shore,
// hills around a small mountain ridge, and a swamp pocket.
func DefaultLayout() []string {
	return []string{
		"WWWWWWWWWWWWWWWWWWWW",
		"WbbbbbbbbbbbbbbbbbbW",
		"WbGGGGGGFFFFGGGGGGbW",
		"WbGGGGGFFFFFFGGGGGbW",
		"WbGGGGFFFFFFFFGGGGbW",
		"WbGGGGGFFRFFGGGHHGbW",
		"WbGGGGGGGRGGGGHHHGbW",
		"WbGGSSGGGRGGGHHMHGbW",
		"WbGSSSGGGRGGGHMMHGbW",
		"WbGGSSGGGRGGGHHMHGbW",
		"WbGGGGGGGRGGGGHHHGbW",
		"WbGGGGGGGRGGGGGHGGbW",
		"WbGGGGGGGRGGGGGGGGbW",
		"WbbbbbbbbRbbbbbbbbbW",
		"WWWWWWWWWWWWWWWWWWWW",
	}
}

// DefaultWorldMap builds the bundled reference map. It panics on error
// because the bundled layout is a compile-time constant.
func DefaultWorldMap() *WorldMap {
	m, err := BuildWorldMap(DefaultLayout(), DefaultLegend())
	if err != nil {
		panic(fmt.Sprintf("default world map: %v", err))
	}
	return m
}

package engine

import (
	"strings"
	"testing"
)

func TestDefaultWorldMapDimensions(t *testing.T) {
	m := DefaultWorldMap()

	if m.Width != 20 || m.Height != 15 {
		t.Fatalf("default map is %dx%d, want 20x15", m.Width, m.Height)
	}
	if len(m.Cells) != m.Height {
		t.Fatalf("cells have %d rows, want %d", len(m.Cells), m.Height)
	}
	for y, row := range m.Cells {
		if len(row) != m.Width {
			t.Errorf("row %d has %d cells, want %d", y, len(row), m.Width)
		}
	}
}

func TestDefaultWorldMapBorderIsImpassable(t *testing.T) {
	m := DefaultWorldMap()

	for x := 0; x < m.Width; x++ {
		for _, y := range []int{0, m.Height - 1} {
			if Walkable(m.At(x, y)) {
				t.Errorf("border cell (%d,%d) is walkable %s", x, y, m.At(x, y))
			}
		}
	}
	for y := 0; y < m.Height; y++ {
		for _, x := range []int{0, m.Width - 1} {
			if Walkable(m.At(x, y)) {
				t.Errorf("border cell (%d,%d) is walkable %s", x, y, m.At(x, y))
			}
		}
	}
}

func TestDefaultWorldMapSpawnRegion(t *testing.T) {
	m := DefaultWorldMap()

	if !Walkable(m.At(SpawnX, SpawnY)) {
		t.Fatalf("spawn cell is %s, must be walkable", m.At(SpawnX, SpawnY))
	}
	// The cell above spawn must be walkable so the first demo move works.
	if !Walkable(m.At(SpawnX, SpawnY-1)) {
		t.Errorf("cell above spawn is %s, must be walkable", m.At(SpawnX, SpawnY-1))
	}
	// (1,1) sits on the beach ring with water to its left.
	if !Walkable(m.At(1, 1)) {
		t.Errorf("(1,1) is %s, must be walkable", m.At(1, 1))
	}
	if m.At(0, 1) != Water {
		t.Errorf("(0,1) is %s, want water", m.At(0, 1))
	}
}

func TestAtOutOfBoundsIsWater(t *testing.T) {
	m := DefaultWorldMap()

	tests := []struct{ x, y int }{
		{-1, 0}, {0, -1}, {m.Width, 0}, {0, m.Height}, {-5, -5},
	}
	for _, tt := range tests {
		if got := m.At(tt.x, tt.y); got != Water {
			t.Errorf("At(%d,%d) = %s, want water", tt.x, tt.y, got)
		}
	}
}

func TestBuildWorldMapRejectsBadLayouts(t *testing.T) {
	legend := DefaultLegend()

	tests := []struct {
		name    string
		layout  []string
		legend  map[string]TerrainKind
		wantErr string
	}{
		{
			name:    "empty layout",
			layout:  nil,
			legend:  legend,
			wantErr: "layout is empty",
		},
		{
			name:    "ragged rows",
			layout:  []string{"WWWW", "WGW", "WWWW"},
			legend:  legend,
			wantErr: "row 2",
		},
		{
			name:    "unknown character",
			layout:  []string{"WWWW", "WG?W", "WWWW"},
			legend:  legend,
			wantErr: "unknown character",
		},
		{
			name:    "walkable border",
			layout:  []string{"WWWW", "GGGW", "WWWW"},
			legend:  legend,
			wantErr: "border cell",
		},
		{
			name:   "legend names unknown terrain",
			layout: []string{"XX", "XX"},
			legend: map[string]TerrainKind{"X": TerrainKind("lava")},
			wantErr: "unknown terrain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildWorldMap(tt.layout, tt.legend)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestBuildWorldMapRejectsBlockedSpawn(t *testing.T) {
	// 5x5 map whose spawn cell (2,2) is a mountain.
	layout := []string{
		"WWWWW",
		"WGGGW",
		"WGMGW",
		"WGGGW",
		"WWWWW",
	}
	_, err := BuildWorldMap(layout, DefaultLegend())
	if err == nil || !strings.Contains(err.Error(), "spawn") {
		t.Fatalf("expected spawn validation error, got %v", err)
	}
}

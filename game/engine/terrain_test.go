package engine

import (
	"math"
	"testing"
)

func TestTerrainTableInvariants(t *testing.T) {
	for _, kind := range AllTerrainKinds() {
		props := Properties(kind)

		if props.DisplayName == "" {
			t.Errorf("terrain %s has no display name", kind)
		}

		if props.Walkable {
			if math.IsInf(props.MovementCost, 1) || props.MovementCost <= 0 {
				t.Errorf("walkable terrain %s must have finite positive cost, got %v", kind, props.MovementCost)
			}
		} else {
			if !math.IsInf(props.MovementCost, 1) {
				t.Errorf("impassable terrain %s must have infinite cost, got %v", kind, props.MovementCost)
			}
		}
	}
}

func TestImpassableKinds(t *testing.T) {
	tests := []struct {
		kind     TerrainKind
		walkable bool
	}{
		{Water, false},
		{Mountain, false},
		{Beach, true},
		{Forest, true},
		{Grassland, true},
		{River, true},
		{Swamp, true},
		{Hills, true},
	}

	for _, tt := range tests {
		if got := Walkable(tt.kind); got != tt.walkable {
			t.Errorf("Walkable(%s) = %v, want %v", tt.kind, got, tt.walkable)
		}
	}
}

func TestUnknownTerrainIsImpassable(t *testing.T) {
	if Walkable(TerrainKind("lava")) {
		t.Error("unknown terrain kinds must not be walkable")
	}
}

func TestTerrainLookupsCoverAllKinds(t *testing.T) {
	names := TerrainNames()
	colors := TerrainColors()

	for _, kind := range AllTerrainKinds() {
		if names[kind] == "" {
			t.Errorf("TerrainNames() missing %s", kind)
		}
		if colors[kind] == "" {
			t.Errorf("TerrainColors() missing %s", kind)
		}
	}
}

package engine

import "math"

// TerrainProperties describes how a terrain kind behaves for movement and
// how it is presented to UI consumers.
type TerrainProperties struct {
	Walkable     bool
	MovementCost float64
	DisplayName  string
}

// terrainTable is the static lookup of terrain kind to properties. It is
// constructed once and never mutated; impassable kinds carry infinite cost.
var terrainTable = map[TerrainKind]TerrainProperties{
	Water:     {Walkable: false, MovementCost: math.Inf(1), DisplayName: "Water"},
	Beach:     {Walkable: true, MovementCost: 1.2, DisplayName: "Beach"},
	Forest:    {Walkable: true, MovementCost: 1.5, DisplayName: "Forest"},
	Mountain:  {Walkable: false, MovementCost: math.Inf(1), DisplayName: "Mountain"},
	Grassland: {Walkable: true, MovementCost: 1.0, DisplayName: "Grassland"},
	River:     {Walkable: true, MovementCost: 2.0, DisplayName: "River"},
	Swamp:     {Walkable: true, MovementCost: 2.5, DisplayName: "Swamp"},
	Hills:     {Walkable: true, MovementCost: 1.8, DisplayName: "Hills"},
}

// terrainColors are the wire-format colors handed to presentation
// components in UI notifications.
var terrainColors = map[TerrainKind]string{
	Water:     "#2471b8",
	Beach:     "#e8d28f",
	Forest:    "#1f7a33",
	Mountain:  "#7d7d85",
	Grassland: "#6abf4b",
	River:     "#3d9bd1",
	Swamp:     "#4f6b3a",
	Hills:     "#9aa668",
}

// Properties returns the terrain table entry for a kind. Unknown kinds are
// reported as non-walkable with infinite cost.
func Properties(kind TerrainKind) TerrainProperties {
	if p, ok := terrainTable[kind]; ok {
		return p
	}
	return TerrainProperties{Walkable: false, MovementCost: math.Inf(1), DisplayName: string(kind)}
}

// Walkable reports whether the player may enter tiles of this kind.
func Walkable(kind TerrainKind) bool {
	return Properties(kind).Walkable
}

// DisplayName returns the human-readable name of a terrain kind.
func DisplayName(kind TerrainKind) string {
	return Properties(kind).DisplayName
}

// AllTerrainKinds lists every known terrain kind.
func AllTerrainKinds() []TerrainKind {
	return []TerrainKind{Water, Beach, Forest, Mountain, Grassland, River, Swamp, Hills}
}

// TerrainNames returns the display-name lookup used by UI notifications.
func TerrainNames() map[TerrainKind]string {
	names := make(map[TerrainKind]string, len(terrainTable))
	for kind, props := range terrainTable {
		names[kind] = props.DisplayName
	}
	return names
}

// TerrainColors returns the color lookup used by UI notifications.
func TerrainColors() map[TerrainKind]string {
	colors := make(map[TerrainKind]string, len(terrainColors))
	for kind, hex := range terrainColors {
		colors[kind] = hex
	}
	return colors
}

// Command mapcheck validates map configuration JSON files. It checks:
//   - JSON structure and layout/legend consistency
//   - Terrain kinds and the impassable map border
//   - That the spawn tile is walkable
//   - Connectivity: every walkable tile is reachable from the spawn
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"terrainwalk/game/config"
	"terrainwalk/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateFile loads and validates a single map configuration JSON file.
func validateFile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var cfg config.MapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	world, err := cfg.WorldMap()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	reachability := validateConnectivity(world)
	result.Errors = append(result.Errors, reachability.Errors...)
	if !reachability.Valid {
		result.Valid = false
		return result
	}

	counts := make(map[engine.TerrainKind]int)
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			counts[world.At(x, y)]++
		}
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", cfg.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", world.Width, world.Height))
	for _, kind := range engine.AllTerrainKinds() {
		if counts[kind] > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ %s tiles: %d", engine.DisplayName(kind), counts[kind]))
		}
	}
	return result
}

// validateConnectivity flood-fills from the spawn tile over walkable
// terrain and reports any walkable tiles the player could never reach.
func validateConnectivity(world *engine.WorldMap) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	type point struct{ x, y int }
	visited := make(map[point]bool)
	queue := []point{{engine.SpawnX, engine.SpawnY}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if visited[p] {
			continue
		}
		visited[p] = true

		for _, d := range []point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			n := point{p.x + d.x, p.y + d.y}
			if !visited[n] && world.InBounds(n.x, n.y) && engine.Walkable(world.At(n.x, n.y)) {
				queue = append(queue, n)
			}
		}
	}

	walkable := 0
	var unreachable []string
	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			if !engine.Walkable(world.At(x, y)) {
				continue
			}
			walkable++
			if !visited[point{x, y}] {
				unreachable = append(unreachable, fmt.Sprintf("(%d,%d) %s", x, y, engine.DisplayName(world.At(x, y))))
			}
		}
	}

	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Connectivity failure: %d/%d walkable tiles unreachable from spawn", len(unreachable), walkable))
		for _, tile := range unreachable {
			result.Errors = append(result.Errors, "Unreachable: "+tile)
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: all %d walkable tiles reachable from spawn", walkable))
	}
	return result
}

// main scans the config directory for *.json files and validates each one,
// printing a concise report and exiting non-zero if any are invalid.
func main() {
	configDir := flag.String("config-dir", "configs", "Directory containing map configurations")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", *configDir)
		return
	}

	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, msg := range result.Errors {
				if !strings.HasPrefix(msg, "✓") {
					fmt.Println("  ❌ " + msg)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}

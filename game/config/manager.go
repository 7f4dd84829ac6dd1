package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"terrainwalk/game/engine"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// AnimationDefaults are the initial animation toggles a map ships with.
// They seed the render controller's settings; the controller owns them
// afterwards.
type AnimationDefaults struct {
	CloudsEnabled bool `json:"clouds_enabled"`
	WavesEnabled  bool `json:"waves_enabled"`
	RiverEnabled  bool `json:"river_enabled"`
}

// MapConfig describes a terrain map: layout strings interpreted through a
// legend of single characters to terrain kinds.
type MapConfig struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Layout      []string           `json:"layout"`
	Legend      map[string]string  `json:"legend"`
	Animations  *AnimationDefaults `json:"animations,omitempty"`
}

// AnimationSettings returns the map's animation toggles, defaulting to all
// enabled when the config does not specify any.
func (c *MapConfig) AnimationSettings() AnimationDefaults {
	if c.Animations == nil {
		return AnimationDefaults{CloudsEnabled: true, WavesEnabled: true, RiverEnabled: true}
	}
	return *c.Animations
}

// WorldMap builds the immutable world map described by this config.
func (c *MapConfig) WorldMap() (*engine.WorldMap, error) {
	legend := make(map[string]engine.TerrainKind, len(c.Legend))
	for key, kind := range c.Legend {
		legend[key] = engine.TerrainKind(kind)
	}
	m, err := engine.BuildWorldMap(c.Layout, legend)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return m, nil
}

// Validate checks the config without building the full map twice.
func (c *MapConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	_, err := c.WorldMap()
	return err
}

// Info is a summary entry for listing available map configs.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Manager loads and caches map configurations from a directory of JSON
// files, with a compiled-in default map always available.
type Manager struct {
	configDir string
	configs   map[string]*MapConfig
	mu        sync.RWMutex
}

// NewManager creates a configuration manager. configDir may be empty, in
// which case only the built-in default map is available.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}
	return &Manager{
		configDir: configDir,
		configs:   make(map[string]*MapConfig),
	}, nil
}

// Default returns the built-in reference map config.
func (m *Manager) Default() *MapConfig {
	legend := make(map[string]string)
	for key, kind := range engine.DefaultLegend() {
		legend[key] = string(kind)
	}
	return &MapConfig{
		Name:        "island",
		Description: "Reference 20x15 island with forest, river, hills and swamp",
		Layout:      engine.DefaultLayout(),
		Legend:      legend,
	}
}

// Load returns a map config by name, reading and caching it from the
// config directory. The empty name and "island" resolve to the default.
func (m *Manager) Load(name string) (*MapConfig, error) {
	if name == "" || name == "island" {
		return m.Default(), nil
	}

	m.mu.RLock()
	if cfg, ok := m.configs[name]; ok {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	if m.configDir == "" {
		return nil, ErrConfigNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg, ok := m.configs[name]; ok {
		return cfg, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename += ".json"
	}
	data, err := os.ReadFile(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config %s: %w", name, err)
	}

	var cfg MapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m.configs[name] = &cfg
	return &cfg, nil
}

// List returns the default map plus every valid JSON config in the
// directory, sorted by ID.
func (m *Manager) List() ([]Info, error) {
	def := m.Default()
	infos := []Info{{ID: "island", Name: def.Name, Description: def.Description}}

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			id := strings.TrimSuffix(entry.Name(), ".json")
			cfg, err := m.Load(id)
			if err != nil {
				// Invalid files are skipped rather than failing the listing.
				continue
			}
			infos = append(infos, Info{ID: id, Name: cfg.Name, Description: cfg.Description})
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

package storage

import (
	"fmt"
	"time"

	"github.com/OCharnyshevich/worldgen/internal/server/config"
)

// WorldMeta holds world-level metadata for persistence.
type WorldMeta struct {
	Seed       int64     `json:"seed"`
	Preset     string    `json:"preset"`
	PresetFile string    `json:"preset_file,omitempty"`
	Store      string    `json:"store"`
	Spawn      Position  `json:"spawn"`
	CreatedAt  time.Time `json:"created_at"`
	SavedAt    time.Time `json:"saved_at"`
	Chunks     int       `json:"chunks"` // chunks written by the last save
}

// NewWorldMeta records the settings a new world is created with.
func NewWorldMeta(cfg *config.Config) *WorldMeta {
	return &WorldMeta{
		Seed:       cfg.Seed,
		Preset:     cfg.Preset,
		PresetFile: cfg.PresetFile,
		Store:      cfg.Store,
		CreatedAt:  time.Now().UTC(),
	}
}

// Pin restores the seed, preset and chunk store the world was created with
// into cfg. It returns a description of every setting cfg disagreed on.
func (m *WorldMeta) Pin(cfg *config.Config) []string {
	var overridden []string
	if cfg.Seed != m.Seed {
		overridden = append(overridden, fmt.Sprintf("seed %d -> %d", cfg.Seed, m.Seed))
		cfg.Seed = m.Seed
	}
	if m.PresetFile != "" {
		if cfg.PresetFile != m.PresetFile {
			overridden = append(overridden, fmt.Sprintf("preset_file %q -> %q", cfg.PresetFile, m.PresetFile))
			cfg.PresetFile = m.PresetFile
		}
	} else if m.Preset != "" {
		if cfg.PresetFile != "" || cfg.Preset != m.Preset {
			overridden = append(overridden, fmt.Sprintf("preset %q -> %q", presetName(cfg), m.Preset))
			cfg.Preset, cfg.PresetFile = m.Preset, ""
		}
	}
	if m.Store != "" && cfg.Store != m.Store {
		overridden = append(overridden, fmt.Sprintf("store %q -> %q", cfg.Store, m.Store))
		cfg.Store = m.Store
	}
	return overridden
}

func presetName(cfg *config.Config) string {
	if cfg.PresetFile != "" {
		return cfg.PresetFile
	}
	return cfg.Preset
}

// Position is a block position for JSON serialization.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

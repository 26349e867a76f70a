package config

import (
	"fmt"
	"time"
)

// Config holds the server configuration.
type Config struct {
	Addr         string `yaml:"addr" json:"addr"`
	Seed         int64  `yaml:"seed" json:"seed"`
	Preset       string `yaml:"preset" json:"preset"`           // builtin preset name
	PresetFile   string `yaml:"preset_file" json:"preset_file"` // overrides Preset when set
	ViewDistance int    `yaml:"view_distance" json:"view_distance"`
	PregenRadius int    `yaml:"pregen_radius" json:"pregen_radius"` // chunk columns generated at startup
	Workers      int    `yaml:"workers" json:"workers"`
	Store        string `yaml:"store" json:"store"`             // "region" or "sqlite"
	Compression  string `yaml:"compression" json:"compression"` // region payloads: "zstd" or "zlib"
	SaveInterval int    `yaml:"save_interval" json:"save_interval"` // seconds, 0 disables periodic saves
	Preview      bool   `yaml:"preview" json:"preview"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:         ":8080",
		Preset:       "default",
		ViewDistance: 4,
		PregenRadius: 2,
		Workers:      4,
		Store:        "region",
		Compression:  "zstd",
		SaveInterval: 60,
		Preview:      true,
	}
}

// Validate reports configuration values the server cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.ViewDistance < 0 || c.PregenRadius < 0 {
		return fmt.Errorf("view_distance and pregen_radius must not be negative")
	}
	switch c.Store {
	case "region", "sqlite":
	default:
		return fmt.Errorf("unknown chunk store %q", c.Store)
	}
	if c.SaveInterval < 0 {
		return fmt.Errorf("save_interval must not be negative, got %d", c.SaveInterval)
	}
	return nil
}

// SaveEvery returns the periodic save interval.
func (c *Config) SaveEvery() time.Duration {
	return time.Duration(c.SaveInterval) * time.Second
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["addr"] {
		cfg.Addr = fromFile.Addr
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["preset"] {
		cfg.Preset = fromFile.Preset
	}
	if !explicitFlags["preset-file"] {
		cfg.PresetFile = fromFile.PresetFile
	}
	if !explicitFlags["view-distance"] {
		cfg.ViewDistance = fromFile.ViewDistance
	}
	if !explicitFlags["pregen-radius"] {
		cfg.PregenRadius = fromFile.PregenRadius
	}
	if !explicitFlags["workers"] {
		cfg.Workers = fromFile.Workers
	}
	if !explicitFlags["store"] {
		cfg.Store = fromFile.Store
	}
	if !explicitFlags["compression"] {
		cfg.Compression = fromFile.Compression
	}
	if !explicitFlags["save-interval"] {
		cfg.SaveInterval = fromFile.SaveInterval
	}
	if !explicitFlags["preview"] {
		cfg.Preview = fromFile.Preview
	}
}

package config

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"negative radius", func(c *Config) { c.PregenRadius = -1 }},
		{"unknown store", func(c *Config) { c.Store = "leveldb" }},
		{"negative save interval", func(c *Config) { c.SaveInterval = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestMergeKeepsExplicitFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Store = "sqlite"

	fromFile := DefaultConfig()
	fromFile.Seed = 7
	fromFile.Store = "region"
	fromFile.Preset = "flat"
	fromFile.Workers = 9

	Merge(cfg, fromFile, map[string]bool{"seed": true, "store": true})

	if cfg.Seed != 42 {
		t.Errorf("explicit seed overwritten: %d", cfg.Seed)
	}
	if cfg.Store != "sqlite" {
		t.Errorf("explicit store overwritten: %q", cfg.Store)
	}
	if cfg.Preset != "flat" {
		t.Errorf("preset = %q, want file value flat", cfg.Preset)
	}
	if cfg.Workers != 9 {
		t.Errorf("workers = %d, want file value 9", cfg.Workers)
	}
}

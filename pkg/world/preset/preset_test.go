package preset

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/gen"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/generation/facets"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func library() *generation.PluginLibrary {
	lib := generation.NewPluginLibrary()
	gen.Register(lib)
	return lib
}

func TestBuiltinPresetsBuild(t *testing.T) {
	names := BuiltinNames()
	if len(names) != 2 || names[0] != "default" || names[1] != "flat" {
		t.Fatalf("BuiltinNames = %v, want [default flat]", names)
	}
	for _, name := range names {
		p, err := Builtin(name)
		if err != nil {
			t.Fatalf("Builtin(%q): %v", name, err)
		}
		w, err := p.Build(42, library(), quietLogger())
		if err != nil {
			t.Fatalf("Build(%q): %v", name, err)
		}
		if len(w.Rasterizers()) == 0 {
			t.Errorf("preset %q has no rasterizers", name)
		}
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if _, err := Builtin("nether"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("err = %v, want ErrUnknownPreset", err)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing providers", "name: x\nrasterizers: [solid]\n"},
		{"wrong type", "name: x\nsea_level: high\nproviders: [a]\nrasterizers: [b]\n"},
		{"unknown field", "name: x\nproviders: [a]\nrasterizers: [b]\ncolour: red\n"},
		{"bad name", "name: x\nproviders: [Elevation]\nrasterizers: [b]\n"},
		{"duplicate", "name: x\nproviders: [a, a]\nrasterizers: [b]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), "validate preset") {
				t.Errorf("Parse: err = %v, want a validation error", err)
			}
		})
	}
}

func TestBuildUnknownGenerator(t *testing.T) {
	p, err := Parse([]byte("name: x\nproviders: [nope]\nrasterizers: [solid]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := p.Build(1, library(), quietLogger()); err == nil || !strings.Contains(err.Error(), "unknown facet provider: nope") {
		t.Errorf("Build: err = %v", err)
	}
}

func TestBuildUnknownConfiguration(t *testing.T) {
	p, err := Parse([]byte("name: x\nproviders: [flat_surface]\nrasterizers: [flat]\nconfig:\n  caves: {threshold: 1}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := p.Build(1, library(), quietLogger()); err == nil || !strings.Contains(err.Error(), `no configurable provider "caves"`) {
		t.Errorf("Build: err = %v", err)
	}
}

func TestLoadAppliesConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tall.yaml")
	doc := "name: tall\nproviders: [flat_surface]\nrasterizers: [flat]\nconfig:\n  flat:\n    height: 7\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, err := p.Build(0, library(), quietLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c := chunk.New(geom.Vec3i{}, nil)
	w.RasterizeChunk(c, nil)
	reg := block.DefaultRegistry()
	if got := c.Block(3, 7, 3); got != reg.MustID(block.Grass) {
		t.Errorf("y=7: block %d, want grass", got)
	}
	if got := c.Block(3, 8, 3); got != block.Air {
		t.Errorf("y=8: block %d, want air", got)
	}
}

func TestSeaLevelAndSeedOffset(t *testing.T) {
	p, err := Parse([]byte("name: wet\nsea_level: 40\nseed_offset: 5\nproviders: [sea_level, elevation]\nrasterizers: [solid]\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	w, err := p.Build(10, library(), quietLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if w.Seed() != 15 {
		t.Errorf("Seed = %d, want 15", w.Seed())
	}
	if w.SeaLevel() != 40 {
		t.Errorf("SeaLevel = %d, want 40", w.SeaLevel())
	}
	f, ok := generation.FacetOf[*facets.SeaLevelFacet](w.Region(chunk.BlockRegionOf(geom.Vec3i{}), 1), facets.SeaLevel)
	if !ok || f.Level != 40 {
		t.Errorf("sea level facet = %v, %v; want level 40", f, ok)
	}
}

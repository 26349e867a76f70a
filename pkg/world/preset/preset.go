// Package preset loads world presets: YAML documents naming the providers,
// rasterizers, entity providers and data providers of a world together with
// their configuration.
package preset

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
)

//go:embed schema.json presets/*.yaml
var files embed.FS

// ErrUnknownPreset is returned by Builtin for names without an embedded preset.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset describes how to assemble a world generator.
type Preset struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// SeaLevel applies to the builder and the sea_level provider when set.
	SeaLevel int `yaml:"sea_level,omitempty"`
	// SeedOffset is added to the world seed.
	SeedOffset int64 `yaml:"seed_offset,omitempty"`
	// Plugins adds every plugin registered in the library.
	Plugins       bool                 `yaml:"plugins,omitempty"`
	Providers     []string             `yaml:"providers"`
	Rasterizers   []string             `yaml:"rasterizers"`
	Entities      []string             `yaml:"entities,omitempty"`
	DataProviders []string             `yaml:"data,omitempty"`
	Config        map[string]yaml.Node `yaml:"config,omitempty"`
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := files.ReadFile("schema.json")
	if err != nil {
		return nil, err
	}
	return jsonschema.CompileString("preset.schema.json", string(raw))
})

// Load reads and validates a preset file.
func Load(path string) (*Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse validates raw against the preset schema and decodes it.
func Parse(raw []byte) (*Preset, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}
	var p Preset
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode preset: %w", err)
	}
	return &p, nil
}

func validate(raw []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile preset schema: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode preset: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON types.
	j, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert preset: %w", err)
	}
	var v any
	if err := json.Unmarshal(j, &v); err != nil {
		return fmt.Errorf("convert preset: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("validate preset: %w", err)
	}
	return nil
}

// Builtin returns an embedded preset by name.
func Builtin(name string) (*Preset, error) {
	raw, err := files.ReadFile(path.Join("presets", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return Parse(raw)
}

// BuiltinNames lists the embedded presets.
func BuiltinNames() []string {
	entries, _ := files.ReadDir("presets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builder assembles a world builder from the preset, instantiating every
// named generator from lib and applying the configuration.
func (p *Preset) Builder(seed int64, lib *generation.PluginLibrary, log *slog.Logger) (*generation.WorldBuilder, error) {
	b := generation.NewWorldBuilder(lib, log).SetSeed(seed + p.SeedOffset)
	if p.SeaLevel > 0 {
		b.SetSeaLevel(p.SeaLevel)
	}
	for _, name := range p.Providers {
		prov, err := lib.NewProvider(name)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		b.AddProvider(prov)
	}
	for _, name := range p.Rasterizers {
		r, err := lib.NewRasterizer(name)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		b.AddRasterizer(r)
	}
	for _, name := range p.Entities {
		e, err := lib.NewEntityProvider(name)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		b.AddEntities(e)
	}
	for _, name := range p.DataProviders {
		d, err := lib.NewDataProvider(name)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", p.Name, err)
		}
		b.AddDataProvider(d)
	}
	if p.Plugins {
		b.AddPlugins()
	}
	if err := p.configure(b.Configurator()); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *Preset) configure(c *generation.Configurator) error {
	if cp, ok := c.Lookup("sea_level"); ok && p.SeaLevel > 0 {
		var n yaml.Node
		if err := n.Encode(map[string]int{"level": p.SeaLevel}); err != nil {
			return fmt.Errorf("preset %s: encode sea level: %w", p.Name, err)
		}
		if err := n.Decode(cp.Configuration()); err != nil {
			return fmt.Errorf("preset %s: configure sea_level: %w", p.Name, err)
		}
	}

	names := make([]string, 0, len(p.Config))
	for name := range p.Config {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cp, ok := c.Lookup(name)
		if !ok {
			return fmt.Errorf("preset %s: no configurable provider %q (have %s)", p.Name, name, strings.Join(c.Names(), ", "))
		}
		node := p.Config[name]
		if err := node.Decode(cp.Configuration()); err != nil {
			return fmt.Errorf("preset %s: configure %s: %w", p.Name, name, err)
		}
	}
	return nil
}

// Build builds and initializes the world generator described by the preset.
func (p *Preset) Build(seed int64, lib *generation.PluginLibrary, log *slog.Logger) (*generation.World, error) {
	if log == nil {
		log = slog.Default()
	}
	b, err := p.Builder(seed, lib, log)
	if err != nil {
		return nil, err
	}
	w, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", p.Name, err)
	}
	w.Initialize()
	log.Info("world generator built", "preset", p.Name, "seed", w.Seed(), "facets", len(w.AllFacets()))
	return w, nil
}

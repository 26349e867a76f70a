package gen

import (
	"math"

	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// Data provider capabilities.
const (
	CapabilityHeight = "height"
	CapabilitySpawn  = "spawn"
)

// HeightSampler answers surface height queries without generating chunks.
type HeightSampler interface {
	HeightAt(x, z int) int
}

// NoiseHeight samples the surface height of the default terrain. Built into
// a world, it samples through that world's elevation, climate, surface and
// sea level providers so their configuration applies.
type NoiseHeight struct {
	elevation *ElevationProvider
	climate   *ClimateProvider
	surface   *SurfaceProvider
	seaLevel  int
}

func NewNoiseHeight() *NoiseHeight {
	return &NoiseHeight{
		elevation: NewElevationProvider(),
		climate:   NewClimateProvider(),
		surface:   NewSurfaceProvider(),
		seaLevel:  generation.DefaultSeaLevel,
	}
}

func (h *NoiseHeight) Capability() string                                               { return CapabilityHeight }
func (h *NoiseHeight) Dependencies() []string                                           { return nil }
func (h *NoiseHeight) Bind(generation.DataProvider, map[string]generation.DataProvider) {}

func (h *NoiseHeight) SetSeed(seed int64) {
	h.elevation.SetSeed(seed)
	h.climate.SetSeed(seed)
	h.surface.SetSeed(seed)
}

func (h *NoiseHeight) SetSeaLevel(level int) { h.seaLevel = level }

// BindProviders replaces the sampler's own providers with the world's.
func (h *NoiseHeight) BindProviders(providers []generation.FacetProvider) {
	for _, p := range providers {
		switch p := p.(type) {
		case *ElevationProvider:
			h.elevation = p
		case *ClimateProvider:
			h.climate = p
		case *SurfaceProvider:
			h.surface = p
		case *SeaLevelProvider:
			h.seaLevel = p.cfg.Level
		}
	}
}

func (h *NoiseHeight) HeightAt(x, z int) int {
	wx, wz := float64(x), float64(z)
	// Facets hold float32 values; round the same way.
	elev := f32(h.elevation.Sample(wx, wz))
	biome := biomeAt(elev, f32(h.climate.Temperature(wx, wz)), f32(h.climate.Humidity(wx, wz)), h.seaLevel)
	return int(surfaceHeight(elev, h.surface.Detail(wx, wz), biome, h.seaLevel))
}

func f32(v float64) float64 { return float64(float32(v)) }

// TerraceSampler quantizes the height layer it wraps into steps.
type TerraceSampler struct {
	Step int
	prev HeightSampler
}

func NewTerraceSampler() *TerraceSampler { return &TerraceSampler{Step: 4} }

func (t *TerraceSampler) Capability() string     { return CapabilityHeight }
func (t *TerraceSampler) Dependencies() []string { return nil }

func (t *TerraceSampler) Bind(prev generation.DataProvider, _ map[string]generation.DataProvider) {
	t.prev, _ = prev.(HeightSampler)
}

func (t *TerraceSampler) HeightAt(x, z int) int {
	if t.prev == nil {
		return 0
	}
	h := t.prev.HeightAt(x, z)
	if t.Step <= 1 {
		return h
	}
	return int(math.Floor(float64(h)/float64(t.Step))) * t.Step
}

// SpawnLocator finds a dry spawn point near the origin from the height
// capability.
type SpawnLocator struct {
	// Radius bounds the search, in blocks.
	Radius   int
	heights  HeightSampler
	seaLevel int
}

func NewSpawnLocator() *SpawnLocator {
	return &SpawnLocator{Radius: 256, seaLevel: generation.DefaultSeaLevel}
}

func (s *SpawnLocator) Capability() string     { return CapabilitySpawn }
func (s *SpawnLocator) Dependencies() []string { return []string{CapabilityHeight} }

func (s *SpawnLocator) Bind(_ generation.DataProvider, deps map[string]generation.DataProvider) {
	s.heights, _ = deps[CapabilityHeight].(HeightSampler)
}

func (s *SpawnLocator) SetSeaLevel(level int) { s.seaLevel = level }

// SpawnPoint returns the position above the first dry column found walking
// outward from the origin in square rings of 8 blocks. Without a height
// sampler, or with no dry land in range, it returns a point above sea level
// at the origin.
func (s *SpawnLocator) SpawnPoint() geom.Vec3i {
	fallback := geom.Vec3i{Y: s.seaLevel + 1}
	if s.heights == nil {
		return fallback
	}
	for ring := 0; ring*8 <= s.Radius; ring++ {
		r := ring * 8
		for dz := -r; dz <= r; dz += 8 {
			for dx := -r; dx <= r; dx += 8 {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				if h := s.heights.HeightAt(dx, dz); h > s.seaLevel {
					return geom.Vec3i{X: dx, Y: h + 1, Z: dz}
				}
			}
		}
	}
	return fallback
}

// Package facets holds the facet types built-in providers produce: 2D and 3D
// fields over a region plus border, sparse object facets, and the concrete
// facets of the default world.
package facets

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// Base records the requested region and the bordered world region.
type Base struct {
	target geom.BlockRegion
	world  geom.BlockRegion
	border generation.Border3D
}

func NewBase(target geom.BlockRegion, border generation.Border3D) Base {
	return Base{target: target, world: border.ExpandRegion(target), border: border}
}

func (b Base) WorldRegion() geom.BlockRegion { return b.world }

// Region returns the requested region, border excluded.
func (b Base) Region() geom.BlockRegion { return b.target }

func (b Base) Border() generation.Border3D { return b.border }

// RelativeRegion is the world region translated so the requested region
// starts at the origin.
func (b Base) RelativeRegion() geom.BlockRegion {
	return b.world.Translate(b.target.Min.Scale(-1))
}

// Grid2D is a value per x/z column over the bordered area.
type Grid2D[T any] struct {
	Base
	area geom.BlockArea
	data []T
}

func NewGrid2D[T any](target geom.BlockRegion, border generation.Border3D) *Grid2D[T] {
	b := NewBase(target, border)
	area := b.world.Area()
	return &Grid2D[T]{Base: b, area: area, data: make([]T, area.Area())}
}

// WorldArea returns the bordered area in world coordinates.
func (g *Grid2D[T]) WorldArea() geom.BlockArea { return g.area }

func (g *Grid2D[T]) worldIndex(x, z int) int {
	if !g.area.Contains(x, z) {
		panic(outOfBounds("grid", x, z, g.area))
	}
	return (z-g.area.Min.Y)*g.area.SizeX() + (x - g.area.Min.X)
}

// GetWorld reads the value at world column (x, z).
func (g *Grid2D[T]) GetWorld(x, z int) T { return g.data[g.worldIndex(x, z)] }

func (g *Grid2D[T]) SetWorld(x, z int, v T) { g.data[g.worldIndex(x, z)] = v }

// Get reads the value at a column relative to the requested region.
func (g *Grid2D[T]) Get(x, z int) T {
	return g.GetWorld(x+g.target.Min.X, z+g.target.Min.Z)
}

func (g *Grid2D[T]) Set(x, z int, v T) {
	g.SetWorld(x+g.target.Min.X, z+g.target.Min.Z, v)
}

// InternalData exposes the backing slice, row-major by z.
func (g *Grid2D[T]) InternalData() []T { return g.data }

// Field2D is a float field over x/z columns.
type Field2D = Grid2D[float32]

func NewField2D(target geom.BlockRegion, border generation.Border3D) *Field2D {
	return NewGrid2D[float32](target, border)
}

// Field3D is a float value per block over the bordered region.
type Field3D struct {
	Base
	data []float32
}

func NewField3D(target geom.BlockRegion, border generation.Border3D) *Field3D {
	b := NewBase(target, border)
	return &Field3D{Base: b, data: make([]float32, b.world.Volume())}
}

func (f *Field3D) worldIndex(x, y, z int) int {
	r := f.world
	if !r.Contains(geom.Vec3i{X: x, Y: y, Z: z}) {
		panic(outOfBounds3("field", x, y, z, r))
	}
	return (x - r.Min.X) + r.SizeX()*((y-r.Min.Y)+r.SizeY()*(z-r.Min.Z))
}

func (f *Field3D) GetWorld(x, y, z int) float32 { return f.data[f.worldIndex(x, y, z)] }

func (f *Field3D) SetWorld(x, y, z int, v float32) { f.data[f.worldIndex(x, y, z)] = v }

func (f *Field3D) Get(x, y, z int) float32 {
	m := f.target.Min
	return f.GetWorld(x+m.X, y+m.Y, z+m.Z)
}

func (f *Field3D) Set(x, y, z int, v float32) {
	m := f.target.Min
	f.SetWorld(x+m.X, y+m.Y, z+m.Z, v)
}

func (f *Field3D) InternalData() []float32 { return f.data }

// Sparse3D holds objects at world positions inside the bordered region.
type Sparse3D[T any] struct {
	Base
	items map[geom.Vec3i]T
}

func NewSparse3D[T any](target geom.BlockRegion, border generation.Border3D) *Sparse3D[T] {
	return &Sparse3D[T]{Base: NewBase(target, border), items: map[geom.Vec3i]T{}}
}

// SetWorld stores v at p. Positions outside the bordered region are ignored.
func (s *Sparse3D[T]) SetWorld(p geom.Vec3i, v T) bool {
	if !s.world.Contains(p) {
		return false
	}
	s.items[p] = v
	return true
}

func (s *Sparse3D[T]) GetWorld(p geom.Vec3i) (T, bool) {
	v, ok := s.items[p]
	return v, ok
}

// WorldEntries returns the stored objects keyed by world position.
func (s *Sparse3D[T]) WorldEntries() map[geom.Vec3i]T { return s.items }

func (s *Sparse3D[T]) Len() int { return len(s.items) }

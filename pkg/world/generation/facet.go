// Package generation composes facet providers into a world generator. A
// facet is a slab of generated data (heights, biomes, density) covering a
// region plus a border. Providers declare which facets they produce, require
// and update; the WorldBuilder orders them into per-facet chains and the
// resulting World rasterizes facets into chunk blocks and entity requests.
package generation

import (
	"fmt"

	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// FacetKey names a facet type.
type FacetKey string

// Facet is generated data covering a region.
type Facet interface {
	// WorldRegion is the region covered, border included.
	WorldRegion() geom.BlockRegion
}

// Border3D is the padding a facet needs around the requested region so that
// neighbour-reading providers see valid data.
type Border3D struct {
	Top, Bottom, Sides int
}

// NewBorder3D panics on a negative extent.
func NewBorder3D(top, bottom, sides int) Border3D {
	if top < 0 || bottom < 0 || sides < 0 {
		panic(fmt.Sprintf("border extents must be non-negative: top=%d bottom=%d sides=%d", top, bottom, sides))
	}
	return Border3D{Top: top, Bottom: bottom, Sides: sides}
}

// MaxWith returns the component-wise maximum of b and the given extents.
func (b Border3D) MaxWith(top, bottom, sides int) Border3D {
	return Border3D{Top: max(b.Top, top), Bottom: max(b.Bottom, bottom), Sides: max(b.Sides, sides)}
}

// Max returns the component-wise maximum of two borders.
func (b Border3D) Max(o Border3D) Border3D {
	return b.MaxWith(o.Top, o.Bottom, o.Sides)
}

// ExtendBy adds o to every extent of b.
func (b Border3D) ExtendBy(o Border3D) Border3D {
	return Border3D{Top: b.Top + o.Top, Bottom: b.Bottom + o.Bottom, Sides: b.Sides + o.Sides}
}

// ExpandRegion grows r by the border.
func (b Border3D) ExpandRegion(r geom.BlockRegion) geom.BlockRegion {
	return r.ExpandFaces(b.Bottom, b.Top, b.Sides)
}

// ExpandArea grows a on the x/z plane by the side border.
func (b Border3D) ExpandArea(a geom.BlockArea) geom.BlockArea {
	return a.Expand(b.Sides, b.Sides)
}

func (b Border3D) String() string {
	return fmt.Sprintf("Border3D{top=%d bottom=%d sides=%d}", b.Top, b.Bottom, b.Sides)
}

package chunk

import (
	"fmt"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// View presents a grid of chunks as one block coordinate space. Chunks are
// ordered x fastest, then y, then z over the chunk region. The offset, in
// chunks, selects which chunk of the grid holds view position (0, 0, 0).
//
// Positions outside the grid, or in nil chunks, read as the default block
// and zero light.
type View struct {
	chunks       []*Chunk
	chunkRegion  geom.BlockRegion
	offset       geom.Vec3i
	defaultBlock block.ID
}

// NewView builds a view over chunks covering chunkRegion.
func NewView(chunks []*Chunk, chunkRegion geom.BlockRegion, offset geom.Vec3i, defaultBlock block.ID) (*View, error) {
	if len(chunks) != chunkRegion.Volume() {
		return nil, fmt.Errorf("chunk view: %d chunks for region %v of volume %d", len(chunks), chunkRegion, chunkRegion.Volume())
	}
	return &View{chunks: chunks, chunkRegion: chunkRegion, offset: offset, defaultBlock: defaultBlock}, nil
}

// ChunkRegion returns the chunk positions covered by the view.
func (v *View) ChunkRegion() geom.BlockRegion { return v.chunkRegion }

// BlockRegion returns the view coordinates that map into the grid.
func (v *View) BlockRegion() geom.BlockRegion {
	min := v.offset.Scale(-1).Mul(Size)
	return geom.RegionFromSize(min, v.chunkRegion.Size().Mul(Size))
}

// locate maps a view position to the owning chunk and its local position.
func (v *View) locate(x, y, z int) (*Chunk, int, int, int) {
	cx := geom.FloorDiv(x, SizeX) + v.offset.X
	cy := geom.FloorDiv(y, SizeY) + v.offset.Y
	cz := geom.FloorDiv(z, SizeZ) + v.offset.Z
	s := v.chunkRegion.Size()
	if cx < 0 || cy < 0 || cz < 0 || cx >= s.X || cy >= s.Y || cz >= s.Z {
		return nil, 0, 0, 0
	}
	c := v.chunks[cx+s.X*(cy+s.Y*cz)]
	return c, geom.FloorMod(x, SizeX), geom.FloorMod(y, SizeY), geom.FloorMod(z, SizeZ)
}

// Block returns the block at a view position, or the default block outside
// the view.
func (v *View) Block(x, y, z int) block.ID {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return v.defaultBlock
	}
	return c.Block(lx, ly, lz)
}

// SetBlock writes through to the owning chunk. It reports false when the
// position has no chunk.
func (v *View) SetBlock(x, y, z int, id block.ID) bool {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return false
	}
	c.SetBlock(lx, ly, lz, id)
	return true
}

// Sunlight returns the sunlight at a view position, 0 outside the view.
func (v *View) Sunlight(x, y, z int) uint8 {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return 0
	}
	return c.Sunlight(lx, ly, lz)
}

// SetSunlight sets the sunlight at a view position and reports whether it
// changed.
func (v *View) SetSunlight(x, y, z int, level uint8) bool {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return false
	}
	return c.SetSunlight(lx, ly, lz, level)
}

// Light returns the block light at a view position, 0 outside the view.
func (v *View) Light(x, y, z int) uint8 {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return 0
	}
	return c.Light(lx, ly, lz)
}

// SetLight sets the block light at a view position and reports whether it
// changed.
func (v *View) SetLight(x, y, z int, level uint8) bool {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return false
	}
	return c.SetLight(lx, ly, lz, level)
}

// ExtraData reads an extra-data slot at a view position.
func (v *View) ExtraData(slot, x, y, z int) int {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return 0
	}
	return c.ExtraData(slot, lx, ly, lz)
}

// SetExtraData writes an extra-data slot. It reports false when the
// position has no chunk.
func (v *View) SetExtraData(slot, x, y, z, value int) bool {
	c, lx, ly, lz := v.locate(x, y, z)
	if c == nil {
		return false
	}
	c.SetExtraData(slot, lx, ly, lz, value)
	return true
}

// ToWorldPos converts a view position to a world block position.
func (v *View) ToWorldPos(p geom.Vec3i) geom.Vec3i {
	return p.Add(v.chunkRegion.Min.Add(v.offset).Mul(Size))
}

// ToViewPos is the inverse of ToWorldPos.
func (v *View) ToViewPos(p geom.Vec3i) geom.Vec3i {
	return p.Sub(v.chunkRegion.Min.Add(v.offset).Mul(Size))
}

// IsValid reports whether every chunk of the view is present and ready.
func (v *View) IsValid() bool {
	for _, c := range v.chunks {
		if c == nil || !c.IsReady() || c.IsDisposed() {
			return false
		}
	}
	return true
}

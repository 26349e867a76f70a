package chunk

import (
	"fmt"
	"sync/atomic"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

// Chunk holds the blocks, light and extra data of one chunk. Block and light
// accessors take local coordinates in [0, Size). Accessing a position outside
// the chunk panics; use Contains to guard.
//
// A Chunk is not safe for concurrent mutation. CreateSnapshot hands a frozen
// copy to another goroutine while the owner keeps writing.
type Chunk struct {
	pos geom.Vec3i

	blocks        dense[uint16]
	sunlight      dense[uint8]
	sunlightRegen dense[uint8]
	light         dense[uint8]
	extra         []packed

	// shared marks arrays currently referenced by a snapshot.
	shared sharedArrays

	dirty    atomic.Bool
	ready    atomic.Bool
	disposed atomic.Bool
}

type sharedArrays struct {
	blocks, sunlight, sunlightRegen, light bool
	extra                                  []bool
}

// New returns an all-air chunk at the given chunk position. The extra data
// manager may be nil.
func New(pos geom.Vec3i, extra *ExtraDataManager) *Chunk {
	c := &Chunk{pos: pos}
	if extra != nil {
		c.extra = extra.makeArrays()
	}
	c.shared.extra = make([]bool, len(c.extra))
	c.dirty.Store(true)
	return c
}

// Position returns the chunk position.
func (c *Chunk) Position() geom.Vec3i { return c.pos }

// Contains reports whether the local position is inside the chunk.
func (c *Chunk) Contains(x, y, z int) bool { return InBounds(x, y, z) }

func (c *Chunk) idx(x, y, z int) int {
	if !InBounds(x, y, z) {
		panic(fmt.Sprintf("chunk %v: local position (%d, %d, %d) out of bounds", c.pos, x, y, z))
	}
	return index(x, y, z)
}

// Block returns the block at a local position.
func (c *Chunk) Block(x, y, z int) block.ID {
	return block.ID(c.blocks.get(c.idx(x, y, z)))
}

// BlockAt is Block for a local position vector.
func (c *Chunk) BlockAt(p geom.Vec3i) block.ID { return c.Block(p.X, p.Y, p.Z) }

// SetBlock stores id at the local position and returns the previous block.
func (c *Chunk) SetBlock(x, y, z int, id block.ID) block.ID {
	i := c.idx(x, y, z)
	if c.blocks.get(i) == uint16(id) {
		return id
	}
	if c.shared.blocks {
		c.blocks = c.blocks.clone()
		c.shared.blocks = false
	}
	old := block.ID(c.blocks.set(i, uint16(id)))
	c.dirty.Store(true)
	return old
}

// Sunlight returns the sunlight at a local position.
func (c *Chunk) Sunlight(x, y, z int) uint8 { return c.sunlight.get(c.idx(x, y, z)) }

// SetSunlight stores a sunlight level in [0, MaxSunlight] and reports
// whether the value changed.
func (c *Chunk) SetSunlight(x, y, z int, v uint8) bool {
	checkLight("sunlight", v, MaxSunlight)
	i := c.idx(x, y, z)
	if c.sunlight.get(i) == v {
		return false
	}
	if c.shared.sunlight {
		c.sunlight = c.sunlight.clone()
		c.shared.sunlight = false
	}
	c.sunlight.set(i, v)
	return true
}

// SunlightRegen returns the sunlight regeneration level at a local position.
func (c *Chunk) SunlightRegen(x, y, z int) uint8 { return c.sunlightRegen.get(c.idx(x, y, z)) }

// SetSunlightRegen stores a regeneration level in [0, MaxSunlightRegen] and
// reports whether the value changed.
func (c *Chunk) SetSunlightRegen(x, y, z int, v uint8) bool {
	checkLight("sunlight regen", v, MaxSunlightRegen)
	i := c.idx(x, y, z)
	if c.sunlightRegen.get(i) == v {
		return false
	}
	if c.shared.sunlightRegen {
		c.sunlightRegen = c.sunlightRegen.clone()
		c.shared.sunlightRegen = false
	}
	c.sunlightRegen.set(i, v)
	return true
}

// Light returns the block light at a local position.
func (c *Chunk) Light(x, y, z int) uint8 { return c.light.get(c.idx(x, y, z)) }

// SetLight stores a block light level in [0, MaxLight] and reports whether
// the value changed.
func (c *Chunk) SetLight(x, y, z int, v uint8) bool {
	checkLight("light", v, MaxLight)
	i := c.idx(x, y, z)
	if c.light.get(i) == v {
		return false
	}
	if c.shared.light {
		c.light = c.light.clone()
		c.shared.light = false
	}
	c.light.set(i, v)
	return true
}

func checkLight(kind string, v, max uint8) {
	if v > max {
		panic(fmt.Sprintf("%s level %d exceeds %d", kind, v, max))
	}
}

// ExtraSlots returns the number of extra data slots.
func (c *Chunk) ExtraSlots() int { return len(c.extra) }

// ExtraData reads an extra-data slot at a local position.
func (c *Chunk) ExtraData(slot, x, y, z int) int {
	return c.extra[slot].get(c.idx(x, y, z))
}

// SetExtraData stores v in the slot and returns the previous value. Values
// are truncated to the slot width.
func (c *Chunk) SetExtraData(slot, x, y, z, v int) int {
	i := c.idx(x, y, z)
	if c.shared.extra[slot] {
		c.extra[slot] = c.extra[slot].clone()
		c.shared.extra[slot] = false
	}
	old := c.extra[slot].set(i, v)
	if old != v {
		c.dirty.Store(true)
	}
	return old
}

// WorldOffset returns the world position of local (0, 0, 0).
func (c *Chunk) WorldOffset() geom.Vec3i { return WorldOffset(c.pos) }

// ToWorldPos converts a local position to a world position.
func (c *Chunk) ToWorldPos(x, y, z int) geom.Vec3i {
	return c.WorldOffset().Add(geom.Vec3i{X: x, Y: y, Z: z})
}

// Region returns the world blocks covered by the chunk.
func (c *Chunk) Region() geom.BlockRegion { return BlockRegionOf(c.pos) }

// Lifecycle flags.
func (c *Chunk) IsDirty() bool    { return c.dirty.Load() }
func (c *Chunk) SetDirty(d bool)  { c.dirty.Store(d) }
func (c *Chunk) IsReady() bool    { return c.ready.Load() }
func (c *Chunk) MarkReady()       { c.ready.Store(true) }
func (c *Chunk) IsDisposed() bool { return c.disposed.Load() }

// Dispose marks the chunk unloaded.
func (c *Chunk) Dispose() {
	c.disposed.Store(true)
	c.ready.Store(false)
}

// PrepareForReactivation clears the disposed flag of a chunk taken back
// from the unload queue.
func (c *Chunk) PrepareForReactivation() {
	c.disposed.Store(false)
}

// Deflate collapses uniform arrays and returns the number of arrays
// collapsed.
func (c *Chunk) Deflate() int {
	n := 0
	if !c.shared.blocks && c.blocks.deflate() {
		n++
	}
	if !c.shared.sunlight && c.sunlight.deflate() {
		n++
	}
	if !c.shared.sunlightRegen && c.sunlightRegen.deflate() {
		n++
	}
	if !c.shared.light && c.light.deflate() {
		n++
	}
	for i := range c.extra {
		if !c.shared.extra[i] && c.extra[i].deflate() {
			n++
		}
	}
	return n
}

// EstimatedMemory returns an approximate size of the chunk data in bytes.
func (c *Chunk) EstimatedMemory() int {
	n := c.blocks.bytes(2) + c.sunlight.bytes(1) + c.sunlightRegen.bytes(1) + c.light.bytes(1)
	for i := range c.extra {
		n += len(c.extra[i].data)
	}
	return n
}

// Snapshot is a frozen copy of chunk data used for serialization.
type Snapshot struct {
	Pos           geom.Vec3i
	blocks        dense[uint16]
	sunlight      dense[uint8]
	sunlightRegen dense[uint8]
	light         dense[uint8]
	extra         []packed
}

// CreateSnapshot freezes the current arrays. Later writes to the chunk copy
// the affected array first, leaving the snapshot untouched.
func (c *Chunk) CreateSnapshot() *Snapshot {
	s := &Snapshot{
		Pos:           c.pos,
		blocks:        c.blocks,
		sunlight:      c.sunlight,
		sunlightRegen: c.sunlightRegen,
		light:         c.light,
		extra:         make([]packed, len(c.extra)),
	}
	copy(s.extra, c.extra)
	c.shared.blocks, c.shared.sunlight, c.shared.sunlightRegen, c.shared.light = true, true, true, true
	for i := range c.shared.extra {
		c.shared.extra[i] = true
	}
	return s
}

// ReleaseSnapshot lets the chunk write its arrays in place again.
func (c *Chunk) ReleaseSnapshot() {
	c.shared.blocks, c.shared.sunlight, c.shared.sunlightRegen, c.shared.light = false, false, false, false
	for i := range c.shared.extra {
		c.shared.extra[i] = false
	}
}

func (s *Snapshot) Block(x, y, z int) block.ID      { return block.ID(s.blocks.get(index(x, y, z))) }
func (s *Snapshot) Sunlight(x, y, z int) uint8      { return s.sunlight.get(index(x, y, z)) }
func (s *Snapshot) SunlightRegen(x, y, z int) uint8 { return s.sunlightRegen.get(index(x, y, z)) }
func (s *Snapshot) Light(x, y, z int) uint8         { return s.light.get(index(x, y, z)) }
func (s *Snapshot) ExtraSlots() int                 { return len(s.extra) }
func (s *Snapshot) ExtraBits(slot int) int          { return s.extra[slot].bits }
func (s *Snapshot) ExtraData(slot, x, y, z int) int { return s.extra[slot].get(index(x, y, z)) }

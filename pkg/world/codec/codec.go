// Package codec serializes chunks to NBT with run-length encoded arrays.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
	"github.com/OCharnyshevich/worldgen/pkg/world/nbt"
)

// Version is written into every encoded chunk.
const Version = 1

// ErrCorrupt is returned for chunk data that cannot be decoded.
var ErrCorrupt = errors.New("corrupt chunk data")

// Encode serializes a chunk snapshot.
func Encode(s *chunk.Snapshot) ([]byte, error) {
	n := chunk.Volume
	coords := func(i int) (int, int, int) {
		return i % chunk.SizeX, (i / chunk.SizeX) % chunk.SizeY, i / (chunk.SizeX * chunk.SizeY)
	}
	runs := func(get func(x, y, z int) int32) []byte {
		return encodeRuns(n, func(i int) int32 { return get(coords(i)) })
	}

	extra := nbt.List{Type: nbt.TagCompound}
	for slot := range s.ExtraSlots() {
		extra.Items = append(extra.Items, nbt.Compound{
			"Bits": int8(s.ExtraBits(slot)),
			"Data": runs(func(x, y, z int) int32 { return int32(s.ExtraData(slot, x, y, z)) }),
		})
	}

	root := nbt.Compound{
		"Version":       int32(Version),
		"X":             int32(s.Pos.X),
		"Y":             int32(s.Pos.Y),
		"Z":             int32(s.Pos.Z),
		"Blocks":        runs(func(x, y, z int) int32 { return int32(s.Block(x, y, z)) }),
		"Sunlight":      runs(func(x, y, z int) int32 { return int32(s.Sunlight(x, y, z)) }),
		"SunlightRegen": runs(func(x, y, z int) int32 { return int32(s.SunlightRegen(x, y, z)) }),
		"Light":         runs(func(x, y, z int) int32 { return int32(s.Light(x, y, z)) }),
		"Extra":         extra,
	}
	var buf bytes.Buffer
	if err := nbt.Encode(&buf, "Chunk", root); err != nil {
		return nil, fmt.Errorf("encode chunk %v: %w", s.Pos, err)
	}
	return buf.Bytes(), nil
}

// EncodeChunk snapshots c and serializes it.
func EncodeChunk(c *chunk.Chunk) ([]byte, error) {
	s := c.CreateSnapshot()
	defer c.ReleaseSnapshot()
	return Encode(s)
}

// Decode rebuilds a chunk. extra must lay out the same extra data slots as
// the encoding side; it may be nil for chunks without extra data. The
// returned chunk is not dirty.
func Decode(data []byte, extra *chunk.ExtraDataManager) (*chunk.Chunk, error) {
	_, root, err := nbt.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if v, _ := root.Int("Version"); v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}
	x, okX := root.Int("X")
	y, okY := root.Int("Y")
	z, okZ := root.Int("Z")
	if !okX || !okY || !okZ {
		return nil, fmt.Errorf("%w: missing position", ErrCorrupt)
	}
	pos := geom.Vec3i{X: int(x), Y: int(y), Z: int(z)}
	c := chunk.New(pos, extra)

	coords := func(i int) (int, int, int) {
		return i % chunk.SizeX, (i / chunk.SizeX) % chunk.SizeY, i / (chunk.SizeX * chunk.SizeY)
	}
	read := func(name string, limit int32, set func(x, y, z int, v int32)) error {
		raw, ok := root.Bytes(name)
		if !ok {
			return fmt.Errorf("%w: chunk %v missing %s", ErrCorrupt, pos, name)
		}
		var bad error
		err := decodeRuns(raw, chunk.Volume, func(i int, v int32) {
			if v < 0 || v > limit {
				if bad == nil {
					bad = fmt.Errorf("%w: chunk %v %s value %d out of range", ErrCorrupt, pos, name, v)
				}
				return
			}
			x, y, z := coords(i)
			set(x, y, z, v)
		})
		if err != nil {
			return fmt.Errorf("chunk %v %s: %w", pos, name, err)
		}
		return bad
	}

	steps := []struct {
		name  string
		limit int32
		set   func(x, y, z int, v int32)
	}{
		{"Blocks", 0xFFFF, func(x, y, z int, v int32) { c.SetBlock(x, y, z, block.ID(v)) }},
		{"Sunlight", chunk.MaxSunlight, func(x, y, z int, v int32) { c.SetSunlight(x, y, z, uint8(v)) }},
		{"SunlightRegen", chunk.MaxSunlightRegen, func(x, y, z int, v int32) { c.SetSunlightRegen(x, y, z, uint8(v)) }},
		{"Light", chunk.MaxLight, func(x, y, z int, v int32) { c.SetLight(x, y, z, uint8(v)) }},
	}
	for _, s := range steps {
		if err := read(s.name, s.limit, s.set); err != nil {
			return nil, err
		}
	}

	slots, _ := root.List("Extra")
	if len(slots.Items) != c.ExtraSlots() {
		return nil, fmt.Errorf("%w: chunk %v has %d extra data slots, want %d", ErrCorrupt, pos, len(slots.Items), c.ExtraSlots())
	}
	var bits []int
	if extra != nil {
		bits = extra.SlotBits()
	}
	for slot, item := range slots.Items {
		sc, _ := item.(nbt.Compound)
		b, _ := sc.Byte("Bits")
		if int(b) != bits[slot] {
			return nil, fmt.Errorf("%w: chunk %v extra slot %d has %d bits, want %d", ErrCorrupt, pos, slot, b, bits[slot])
		}
		raw, _ := sc.Bytes("Data")
		limit := int32(1)<<bits[slot] - 1
		var bad error
		err := decodeRuns(raw, chunk.Volume, func(i int, v int32) {
			if v < 0 || v > limit {
				if bad == nil {
					bad = fmt.Errorf("%w: chunk %v extra slot %d value %d out of range", ErrCorrupt, pos, slot, v)
				}
				return
			}
			x, y, z := coords(i)
			c.SetExtraData(slot, x, y, z, int(v))
		})
		if err != nil {
			return nil, fmt.Errorf("chunk %v extra slot %d: %w", pos, slot, err)
		}
		if bad != nil {
			return nil, bad
		}
	}
	c.Deflate()
	c.SetDirty(false)
	return c, nil
}

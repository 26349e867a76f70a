package chunk

import (
	"testing"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

func TestToChunkPosNegative(t *testing.T) {
	tests := []struct {
		world, chunk, rel geom.Vec3i
	}{
		{geom.Vec3i{X: 0, Y: 0, Z: 0}, geom.Vec3i{}, geom.Vec3i{}},
		{geom.Vec3i{X: 31, Y: 63, Z: 31}, geom.Vec3i{}, geom.Vec3i{X: 31, Y: 63, Z: 31}},
		{geom.Vec3i{X: 32, Y: 64, Z: 32}, geom.Vec3i{X: 1, Y: 1, Z: 1}, geom.Vec3i{}},
		{geom.Vec3i{X: -1, Y: -1, Z: -1}, geom.Vec3i{X: -1, Y: -1, Z: -1}, geom.Vec3i{X: 31, Y: 63, Z: 31}},
		{geom.Vec3i{X: -33, Y: 0, Z: 5}, geom.Vec3i{X: -2, Y: 0, Z: 0}, geom.Vec3i{X: 31, Y: 0, Z: 5}},
	}
	for _, tt := range tests {
		if got := ToChunkPos(tt.world); got != tt.chunk {
			t.Errorf("ToChunkPos(%v) = %v, want %v", tt.world, got, tt.chunk)
		}
		if got := ToRelative(tt.world); got != tt.rel {
			t.Errorf("ToRelative(%v) = %v, want %v", tt.world, got, tt.rel)
		}
	}
}

func TestChunkRegion(t *testing.T) {
	r := ChunkRegion(geom.NewBlockRegion(geom.Vec3i{X: -1, Y: 0, Z: 0}, geom.Vec3i{X: 32, Y: 63, Z: 31}))
	want := geom.BlockRegion{Min: geom.Vec3i{X: -1}, Max: geom.Vec3i{X: 1}}
	if r != want {
		t.Errorf("ChunkRegion = %v, want %v", r, want)
	}
}

func TestChunkRegionAround(t *testing.T) {
	r := ChunkRegionAround(geom.Vec3i{X: 2, Y: 1, Z: -3}, geom.Vec3i{X: 1, Z: 2})
	want := geom.BlockRegion{Min: geom.Vec3i{X: 1, Y: 1, Z: -5}, Max: geom.Vec3i{X: 3, Y: 1, Z: -1}}
	if r != want {
		t.Errorf("ChunkRegionAround = %v, want %v", r, want)
	}
	if r.Volume() != 15 {
		t.Errorf("Volume = %d, want 15", r.Volume())
	}
}

func TestChunkSetGetBlock(t *testing.T) {
	c := New(geom.Vec3i{X: 1, Y: 0, Z: -1}, nil)
	if c.Block(5, 6, 7) != block.Air {
		t.Fatal("new chunk should be air")
	}
	if old := c.SetBlock(5, 6, 7, 3); old != block.Air {
		t.Errorf("SetBlock returned %d, want air", old)
	}
	if old := c.SetBlock(5, 6, 7, 4); old != 3 {
		t.Errorf("SetBlock returned %d, want 3", old)
	}
	if got := c.Block(5, 6, 7); got != 4 {
		t.Errorf("Block = %d, want 4", got)
	}
	if got := c.ToWorldPos(5, 6, 7); got != (geom.Vec3i{X: 37, Y: 6, Z: -25}) {
		t.Errorf("ToWorldPos = %v", got)
	}
}

func TestChunkOutOfBoundsPanics(t *testing.T) {
	c := New(geom.Vec3i{}, nil)
	if c.Contains(SizeX, 0, 0) {
		t.Error("Contains should reject x == SizeX")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out of bounds access")
		}
	}()
	c.SetBlock(-1, 0, 0, 1)
}

func TestChunkLight(t *testing.T) {
	c := New(geom.Vec3i{}, nil)
	if !c.SetSunlight(0, 0, 0, MaxSunlight) {
		t.Error("first SetSunlight should report a change")
	}
	if c.SetSunlight(0, 0, 0, MaxSunlight) {
		t.Error("repeated SetSunlight should not report a change")
	}
	if !c.SetSunlightRegen(1, 1, 1, MaxSunlightRegen) {
		t.Error("SetSunlightRegen should report a change")
	}
	c.SetLight(2, 2, 2, 7)
	if c.Light(2, 2, 2) != 7 || c.Sunlight(0, 0, 0) != MaxSunlight || c.SunlightRegen(1, 1, 1) != MaxSunlightRegen {
		t.Error("light values not stored")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for light above MaxLight")
		}
	}()
	c.SetLight(0, 0, 0, MaxLight+1)
}

func TestChunkSnapshotCopyOnWrite(t *testing.T) {
	c := New(geom.Vec3i{}, nil)
	c.SetBlock(1, 1, 1, 5)
	snap := c.CreateSnapshot()

	c.SetBlock(1, 1, 1, 9)
	c.SetBlock(2, 2, 2, 9)

	if got := snap.Block(1, 1, 1); got != 5 {
		t.Errorf("snapshot block = %d, want 5", got)
	}
	if got := snap.Block(2, 2, 2); got != block.Air {
		t.Errorf("snapshot block = %d, want air", got)
	}
	if got := c.Block(1, 1, 1); got != 9 {
		t.Errorf("chunk block = %d, want 9", got)
	}

	c.ReleaseSnapshot()
	c.SetBlock(3, 3, 3, 1)
	if snap.Block(3, 3, 3) != block.Air {
		t.Error("snapshot taken before the write should not see it")
	}
}

func TestChunkDeflate(t *testing.T) {
	c := New(geom.Vec3i{}, nil)
	c.SetBlock(0, 0, 0, 1)
	full := c.EstimatedMemory()
	c.SetBlock(0, 0, 0, block.Air)
	if n := c.Deflate(); n != 1 {
		t.Errorf("Deflate collapsed %d arrays, want 1", n)
	}
	if c.EstimatedMemory() >= full {
		t.Errorf("memory after deflate %d, before %d", c.EstimatedMemory(), full)
	}
	if c.Block(10, 10, 10) != block.Air {
		t.Error("deflated chunk should read air")
	}
}

func TestChunkLifecycle(t *testing.T) {
	c := New(geom.Vec3i{}, nil)
	if c.IsReady() || c.IsDisposed() {
		t.Fatal("new chunk should be neither ready nor disposed")
	}
	c.MarkReady()
	if !c.IsReady() {
		t.Error("MarkReady had no effect")
	}
	c.Dispose()
	if c.IsReady() || !c.IsDisposed() {
		t.Error("Dispose should clear ready and set disposed")
	}
	c.PrepareForReactivation()
	if c.IsDisposed() {
		t.Error("PrepareForReactivation should clear disposed")
	}
}

func TestExtraDataAliasing(t *testing.T) {
	reg := block.DefaultRegistry()
	isGrass := func(b block.Block) bool { return b.Name == block.Grass }
	isSand := func(b block.Block) bool { return b.Name == block.Sand }
	isSolid := func(b block.Block) bool { return !b.Penetrable }

	m, err := NewExtraDataManager(reg, []ExtraField{
		{Name: "test:nutrients", Bits: 8, AppliesTo: isGrass},
		{Name: "test:moisture", Bits: 8, AppliesTo: isSand},
		{Name: "test:cracks", Bits: 8, AppliesTo: isSolid},
		{Name: "test:age", Bits: 4, AppliesTo: isGrass},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	moisture, _ := m.Slot("test:moisture")
	nutrients, _ := m.Slot("test:nutrients")
	cracks, _ := m.Slot("test:cracks")
	age, _ := m.Slot("test:age")

	if moisture != nutrients {
		t.Errorf("disjoint fields should share a slot: moisture=%d nutrients=%d", moisture, nutrients)
	}
	if cracks == nutrients {
		t.Error("overlapping fields should not share a slot")
	}
	if age == nutrients || age == cracks {
		t.Error("fields of different width should not share a slot")
	}
	if len(m.SlotBits()) != 3 {
		t.Errorf("slots = %v, want 3", m.SlotBits())
	}
	if _, err := m.Slot("test:missing"); err == nil {
		t.Error("expected error for unregistered field")
	}

	c := New(geom.Vec3i{}, m)
	c.SetExtraData(age, 1, 2, 3, 0x1F)
	if got := c.ExtraData(age, 1, 2, 3); got != 0x0F {
		t.Errorf("4-bit slot stored %d, want 15", got)
	}
	c.SetExtraData(cracks, 4, 5, 6, 200)
	if got := c.ExtraData(cracks, 4, 5, 6); got != 200 {
		t.Errorf("8-bit slot stored %d, want 200", got)
	}
}

func TestExtraDataInvalidBits(t *testing.T) {
	_, err := NewExtraDataManager(block.NewRegistry(), []ExtraField{{Name: "x", Bits: 12}}, nil)
	if err == nil {
		t.Error("expected error for bit size 12")
	}
}

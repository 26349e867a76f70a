package chunk

import (
	"testing"

	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

const solid block.ID = 1

func newGrid(t *testing.T) ([]*Chunk, geom.BlockRegion) {
	t.Helper()
	region := geom.BlockRegion{Min: geom.Vec3i{X: -1, Y: 0, Z: -1}, Max: geom.Vec3i{X: 1, Y: 0, Z: 1}}
	chunks := make([]*Chunk, 0, 9)
	region.Each(func(p geom.Vec3i) {
		chunks = append(chunks, New(p, nil))
	})
	return chunks, region
}

func TestOffsetWorldView(t *testing.T) {
	chunks, region := newGrid(t)
	chunks[4].SetBlock(0, 0, 0, solid)

	v, err := NewView(chunks, region, geom.Vec3i{X: 1, Y: 0, Z: 1}, block.Air)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Block(0, 0, 0); got != solid {
		t.Errorf("Block(0,0,0) = %d, want solid", got)
	}
	if got := v.ToWorldPos(geom.Vec3i{}); got != chunks[4].ToWorldPos(0, 0, 0) {
		t.Errorf("ToWorldPos = %v, want %v", got, chunks[4].ToWorldPos(0, 0, 0))
	}
}

func TestOffsetWorldViewBeforeMainChunk(t *testing.T) {
	chunks, region := newGrid(t)
	chunks[0].SetBlock(SizeX-1, 0, SizeZ-1, solid)

	v, err := NewView(chunks, region, geom.Vec3i{X: 1, Y: 0, Z: 1}, block.Air)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Block(-1, 0, -1); got != solid {
		t.Errorf("Block(-1,0,-1) = %d, want solid", got)
	}
	want := chunks[0].ToWorldPos(SizeX-1, 0, SizeZ-1)
	if got := v.ToWorldPos(geom.Vec3i{X: -1, Y: 0, Z: -1}); got != want {
		t.Errorf("ToWorldPos = %v, want %v", got, want)
	}
}

func TestOffsetWorldViewAfterMainChunk(t *testing.T) {
	chunks, region := newGrid(t)
	chunks[8].SetBlock(0, 0, 0, solid)

	v, err := NewView(chunks, region, geom.Vec3i{X: 1, Y: 0, Z: 1}, block.Air)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Block(SizeX, 0, SizeZ); got != solid {
		t.Errorf("Block(32,0,32) = %d, want solid", got)
	}
	want := chunks[8].ToWorldPos(0, 0, 0)
	if got := v.ToWorldPos(geom.Vec3i{X: SizeX, Y: 0, Z: SizeZ}); got != want {
		t.Errorf("ToWorldPos = %v, want %v", got, want)
	}
}

func TestViewWriteThroughAndRoundTrip(t *testing.T) {
	chunks, region := newGrid(t)
	v, err := NewView(chunks, region, geom.Vec3i{X: 1, Y: 0, Z: 1}, block.Air)
	if err != nil {
		t.Fatal(err)
	}
	p := geom.Vec3i{X: -5, Y: 10, Z: 40}
	if !v.SetBlock(p.X, p.Y, p.Z, solid) {
		t.Fatal("SetBlock reported no chunk")
	}
	w := v.ToWorldPos(p)
	owner := chunks[0]
	for _, c := range chunks {
		if c.Region().Contains(w) {
			owner = c
		}
	}
	rel := ToRelative(w)
	if owner.Block(rel.X, rel.Y, rel.Z) != solid {
		t.Errorf("write at view %v not visible in chunk %v at %v", p, owner.Position(), rel)
	}
	if got := v.ToViewPos(w); got != p {
		t.Errorf("ToViewPos(ToWorldPos(%v)) = %v", p, got)
	}
}

func TestViewOutsideReadsDefault(t *testing.T) {
	chunks, region := newGrid(t)
	chunks[3] = nil
	v, err := NewView(chunks, region, geom.Vec3i{X: 1, Y: 0, Z: 1}, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Block(-SizeX-1, 0, 0); got != 7 {
		t.Errorf("outside block = %d, want default 7", got)
	}
	if got := v.Block(-1, 0, 0); got != 7 {
		t.Errorf("nil chunk block = %d, want default 7", got)
	}
	if v.SetBlock(-1, 0, 0, solid) {
		t.Error("SetBlock on nil chunk should report false")
	}
	if v.IsValid() {
		t.Error("view with nil chunk should be invalid")
	}
	if _, err := NewView(chunks[:4], region, geom.Vec3i{}, block.Air); err == nil {
		t.Error("expected error for wrong chunk count")
	}
}

package facets

import (
	"testing"

	"github.com/OCharnyshevich/worldgen/pkg/world/generation"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

func TestGrid2DBorderAndRelative(t *testing.T) {
	target := geom.RegionFromSize(geom.Vec3i{X: 32, Y: 0, Z: -32}, geom.Vec3i{X: 32, Y: 64, Z: 32})
	f := NewField2D(target, generation.NewBorder3D(0, 0, 4))

	area := f.WorldArea()
	if area.SizeX() != 40 || area.SizeY() != 40 {
		t.Fatalf("area = %dx%d, want 40x40", area.SizeX(), area.SizeY())
	}
	f.Set(-4, -4, 1.5)
	if got := f.GetWorld(28, -36); got != 1.5 {
		t.Errorf("GetWorld(28,-36) = %v, want 1.5", got)
	}
	f.SetWorld(63, -1, 2)
	if got := f.Get(31, 31); got != 2 {
		t.Errorf("Get(31,31) = %v, want 2", got)
	}
	if rel := f.RelativeRegion(); rel.Min != (geom.Vec3i{X: -4, Y: 0, Z: -4}) {
		t.Errorf("RelativeRegion min = %v", rel.Min)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic outside bordered area")
		}
	}()
	f.Get(36, 0)
}

func TestField3DIndexing(t *testing.T) {
	target := geom.RegionFromSize(geom.Vec3i{X: 0, Y: 0, Z: 0}, geom.Vec3i{X: 4, Y: 4, Z: 4})
	f := NewField3D(target, generation.NewBorder3D(2, 1, 0))
	if f.WorldRegion().Min.Y != -1 || f.WorldRegion().Max.Y != 5 {
		t.Fatalf("world region = %v", f.WorldRegion())
	}
	f.Set(3, -1, 2, 7)
	if got := f.GetWorld(3, -1, 2); got != 7 {
		t.Errorf("GetWorld = %v, want 7", got)
	}
	if len(f.InternalData()) != 4*7*4 {
		t.Errorf("len = %d", len(f.InternalData()))
	}
}

func TestSparse3DIgnoresOutside(t *testing.T) {
	target := geom.RegionFromSize(geom.Vec3i{}, geom.Vec3i{X: 8, Y: 8, Z: 8})
	s := NewSparse3D[TreeKind](target, generation.NewBorder3D(0, 0, 1))
	if !s.SetWorld(geom.Vec3i{X: -1, Y: 0, Z: 0}, TreeOak) {
		t.Error("border position should be stored")
	}
	if s.SetWorld(geom.Vec3i{X: -2, Y: 0, Z: 0}, TreeOak) {
		t.Error("position outside border should be ignored")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestBiomeString(t *testing.T) {
	if Desert.String() != "desert" || Biome(200).String() != "unknown" {
		t.Error("biome names wrong")
	}
	if !Tundra.Cold() || Desert.Cold() {
		t.Error("Cold wrong")
	}
}

package geom

import "testing"

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b, div, mod int
	}{
		{0, 32, 0, 0},
		{31, 32, 0, 31},
		{32, 32, 1, 0},
		{-1, 32, -1, 31},
		{-32, 32, -1, 0},
		{-33, 32, -2, 31},
	}
	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := FloorMod(tt.a, tt.b); got != tt.mod {
			t.Errorf("FloorMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
	}
}

func TestBlockRegionSizeAndContains(t *testing.T) {
	r := NewBlockRegion(Vec3i{3, 4, 5}, Vec3i{0, 0, 0})
	if r.Min != (Vec3i{0, 0, 0}) || r.Max != (Vec3i{3, 4, 5}) {
		t.Fatalf("corners not normalized: %v", r)
	}
	if r.Size() != (Vec3i{4, 5, 6}) {
		t.Errorf("Size = %v, want (4, 5, 6)", r.Size())
	}
	if r.Volume() != 120 {
		t.Errorf("Volume = %d, want 120", r.Volume())
	}
	if !r.Contains(Vec3i{3, 4, 5}) || r.Contains(Vec3i{4, 0, 0}) {
		t.Error("Contains boundary wrong")
	}
}

func TestBlockRegionEachOrder(t *testing.T) {
	r := RegionFromSize(Vec3i{}, Vec3i{2, 2, 1})
	var got []Vec3i
	r.Each(func(p Vec3i) { got = append(got, p) })
	want := []Vec3i{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}
	if len(got) != len(want) {
		t.Fatalf("got %d positions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBlockRegionExpandUnion(t *testing.T) {
	r := RegionFromSize(Vec3i{0, 0, 0}, Vec3i{4, 4, 4})
	e := r.ExpandFaces(1, 2, 3)
	if e.Min != (Vec3i{-3, -1, -3}) || e.Max != (Vec3i{6, 5, 6}) {
		t.Errorf("ExpandFaces = %v", e)
	}
	if !e.ContainsRegion(r) {
		t.Error("expanded region should contain the original")
	}
	u := r.Union(RegionFromSize(Vec3i{10, 10, 10}, Vec3i{1, 1, 1}))
	if u.Max != (Vec3i{10, 10, 10}) {
		t.Errorf("Union max = %v", u.Max)
	}
}

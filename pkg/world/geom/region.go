package geom

import "fmt"

// BlockRegion is an axis-aligned box of integer positions. Both Min and Max
// are inclusive.
type BlockRegion struct {
	Min, Max Vec3i
}

// NewBlockRegion returns the region spanning the two corners in any order.
func NewBlockRegion(a, b Vec3i) BlockRegion {
	return BlockRegion{
		Min: Vec3i{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)},
		Max: Vec3i{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)},
	}
}

// RegionFromSize returns the region starting at min with the given extent.
func RegionFromSize(min, size Vec3i) BlockRegion {
	return BlockRegion{Min: min, Max: min.Add(size).Sub(Vec3i{1, 1, 1})}
}

// Valid reports whether the region contains at least one position.
func (r BlockRegion) Valid() bool {
	return r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y && r.Min.Z <= r.Max.Z
}

func (r BlockRegion) Size() Vec3i {
	return Vec3i{r.Max.X - r.Min.X + 1, r.Max.Y - r.Min.Y + 1, r.Max.Z - r.Min.Z + 1}
}

func (r BlockRegion) SizeX() int { return r.Max.X - r.Min.X + 1 }
func (r BlockRegion) SizeY() int { return r.Max.Y - r.Min.Y + 1 }
func (r BlockRegion) SizeZ() int { return r.Max.Z - r.Min.Z + 1 }

// Volume returns the number of positions in the region, 0 if invalid.
func (r BlockRegion) Volume() int {
	if !r.Valid() {
		return 0
	}
	s := r.Size()
	return s.X * s.Y * s.Z
}

func (r BlockRegion) Contains(p Vec3i) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y &&
		p.Z >= r.Min.Z && p.Z <= r.Max.Z
}

// ContainsRegion reports whether o lies entirely inside r.
func (r BlockRegion) ContainsRegion(o BlockRegion) bool {
	return r.Contains(o.Min) && r.Contains(o.Max)
}

func (r BlockRegion) Intersects(o BlockRegion) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y &&
		r.Min.Z <= o.Max.Z && o.Min.Z <= r.Max.Z
}

// Expand grows the region by the given amount on each face of each axis.
func (r BlockRegion) Expand(x, y, z int) BlockRegion {
	return BlockRegion{
		Min: Vec3i{r.Min.X - x, r.Min.Y - y, r.Min.Z - z},
		Max: Vec3i{r.Max.X + x, r.Max.Y + y, r.Max.Z + z},
	}
}

// ExpandFaces grows the region by independent amounts below and above.
func (r BlockRegion) ExpandFaces(below, above, sides int) BlockRegion {
	return BlockRegion{
		Min: Vec3i{r.Min.X - sides, r.Min.Y - below, r.Min.Z - sides},
		Max: Vec3i{r.Max.X + sides, r.Max.Y + above, r.Max.Z + sides},
	}
}

func (r BlockRegion) Translate(v Vec3i) BlockRegion {
	return BlockRegion{Min: r.Min.Add(v), Max: r.Max.Add(v)}
}

// Union returns the smallest region containing both.
func (r BlockRegion) Union(o BlockRegion) BlockRegion {
	return BlockRegion{
		Min: Vec3i{min(r.Min.X, o.Min.X), min(r.Min.Y, o.Min.Y), min(r.Min.Z, o.Min.Z)},
		Max: Vec3i{max(r.Max.X, o.Max.X), max(r.Max.Y, o.Max.Y), max(r.Max.Z, o.Max.Z)},
	}
}

// Area projects the region onto the x/z plane.
func (r BlockRegion) Area() BlockArea {
	return BlockArea{Min: Vec2i{r.Min.X, r.Min.Z}, Max: Vec2i{r.Max.X, r.Max.Z}}
}

// Each calls fn for every position, x varying fastest, then y, then z.
func (r BlockRegion) Each(fn func(p Vec3i)) {
	for z := r.Min.Z; z <= r.Max.Z; z++ {
		for y := r.Min.Y; y <= r.Max.Y; y++ {
			for x := r.Min.X; x <= r.Max.X; x++ {
				fn(Vec3i{x, y, z})
			}
		}
	}
}

func (r BlockRegion) String() string { return fmt.Sprintf("[%v..%v]", r.Min, r.Max) }

// Vec2i is an x/z position.
type Vec2i struct{ X, Y int }

// BlockArea is an inclusive rectangle on the x/z plane. Y of the corners
// holds the z coordinate.
type BlockArea struct {
	Min, Max Vec2i
}

func NewBlockArea(a, b Vec2i) BlockArea {
	return BlockArea{
		Min: Vec2i{min(a.X, b.X), min(a.Y, b.Y)},
		Max: Vec2i{max(a.X, b.X), max(a.Y, b.Y)},
	}
}

func (a BlockArea) SizeX() int { return a.Max.X - a.Min.X + 1 }
func (a BlockArea) SizeY() int { return a.Max.Y - a.Min.Y + 1 }
func (a BlockArea) Area() int  { return a.SizeX() * a.SizeY() }

func (a BlockArea) Contains(x, y int) bool {
	return x >= a.Min.X && x <= a.Max.X && y >= a.Min.Y && y <= a.Max.Y
}

func (a BlockArea) Expand(x, y int) BlockArea {
	return BlockArea{Min: Vec2i{a.Min.X - x, a.Min.Y - y}, Max: Vec2i{a.Max.X + x, a.Max.Y + y}}
}

// Package geom holds the integer vector and box types shared by chunk
// storage and world generation.
package geom

import "fmt"

// Vec3i is an integer block or chunk position.
type Vec3i struct{ X, Y, Z int }

func (v Vec3i) Add(o Vec3i) Vec3i { return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3i) Sub(o Vec3i) Vec3i { return Vec3i{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Mul multiplies component-wise.
func (v Vec3i) Mul(o Vec3i) Vec3i { return Vec3i{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

func (v Vec3i) Scale(n int) Vec3i { return Vec3i{v.X * n, v.Y * n, v.Z * n} }

// DistanceSquared returns the squared euclidean distance between v and o.
func (v Vec3i) DistanceSquared(o Vec3i) int {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

func (v Vec3i) String() string { return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z) }

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod returns the non-negative remainder of a/b for positive b.
func FloorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

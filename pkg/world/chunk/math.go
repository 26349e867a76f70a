// Package chunk stores voxel data in fixed-size chunks and provides views
// that stitch neighbouring chunks into one coordinate space.
package chunk

import "github.com/OCharnyshevich/worldgen/pkg/world/geom"

// Chunk extent in blocks. Each dimension is a power of two.
const (
	SizeX = 32
	SizeY = 64
	SizeZ = 32

	PowerX = 5
	PowerY = 6
	PowerZ = 5

	InnerMaskX = SizeX - 1
	InnerMaskY = SizeY - 1
	InnerMaskZ = SizeZ - 1

	Volume = SizeX * SizeY * SizeZ

	MaxLight         = 15
	MaxSunlight      = 15
	MaxSunlightRegen = 63
)

// Size is the chunk extent as a vector.
var Size = geom.Vec3i{X: SizeX, Y: SizeY, Z: SizeZ}

// ToChunkPos returns the position of the chunk containing the world block position.
func ToChunkPos(p geom.Vec3i) geom.Vec3i {
	return geom.Vec3i{X: p.X >> PowerX, Y: p.Y >> PowerY, Z: p.Z >> PowerZ}
}

// ToRelative returns the chunk-local position of a world block position.
func ToRelative(p geom.Vec3i) geom.Vec3i {
	return geom.Vec3i{X: p.X & InnerMaskX, Y: p.Y & InnerMaskY, Z: p.Z & InnerMaskZ}
}

// InBounds reports whether the local position lies inside a chunk.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < SizeX && y >= 0 && y < SizeY && z >= 0 && z < SizeZ
}

// WorldOffset returns the world position of local (0, 0, 0) in the chunk at pos.
func WorldOffset(pos geom.Vec3i) geom.Vec3i {
	return geom.Vec3i{X: pos.X * SizeX, Y: pos.Y * SizeY, Z: pos.Z * SizeZ}
}

// BlockRegionOf returns the world blocks covered by the chunk at pos.
func BlockRegionOf(pos geom.Vec3i) geom.BlockRegion {
	return geom.RegionFromSize(WorldOffset(pos), Size)
}

// ChunkRegion returns the chunk positions that overlap the block region.
func ChunkRegion(r geom.BlockRegion) geom.BlockRegion {
	return geom.BlockRegion{Min: ToChunkPos(r.Min), Max: ToChunkPos(r.Max)}
}

// ChunkRegionAround returns the chunks within extent chunks of pos.
func ChunkRegionAround(pos geom.Vec3i, extent geom.Vec3i) geom.BlockRegion {
	return geom.BlockRegion{Min: pos.Sub(extent), Max: pos.Add(extent)}
}

// index returns the array index of a local position. x varies fastest, then y.
func index(x, y, z int) int {
	return x + SizeX*(y+SizeY*z)
}

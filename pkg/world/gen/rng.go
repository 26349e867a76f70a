package gen

// chunkRNG is a simple deterministic RNG for per-chunk generation.
type chunkRNG struct {
	state int64
}

func newChunkRNG(seed int64, cx, cy, cz int, salt int64) *chunkRNG {
	s := seed ^ (int64(cx)*341873128712 + int64(cy)*98765432101 + int64(cz)*132897987541 + salt)
	return &chunkRNG{state: s}
}

func (r *chunkRNG) next() int64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

func (r *chunkRNG) nextN(n int) int {
	v := int(r.next()>>33) % n
	if v < 0 {
		v = -v
	}
	return v
}

// columnHash mixes a seed and world column into a well-distributed value.
// Decisions keyed by it agree for every region that covers the column.
func columnHash(seed int64, x, z int, salt int64) uint64 {
	h := uint64(seed) ^ uint64(salt)*0x9E3779B97F4A7C15
	h ^= uint64(int64(x)) * 0xBF58476D1CE4E5B9
	h = (h ^ (h >> 31)) * 0x94D049BB133111EB
	h ^= uint64(int64(z)) * 0xD6E8FEB86659FD93
	h = (h ^ (h >> 29)) * 0xBF58476D1CE4E5B9
	return h ^ (h >> 32)
}

// columnChance reports whether a column is selected with probability 1/n.
func columnChance(seed int64, x, z int, salt int64, n int) bool {
	return n > 0 && columnHash(seed, x, z, salt)%uint64(n) == 0
}

package world

import (
	"github.com/OCharnyshevich/worldgen/pkg/world/block"
	"github.com/OCharnyshevich/worldgen/pkg/world/chunk"
	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

var sides = [...]geom.Vec3i{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// lighter computes the light a chunk produces on its own, before any
// exchange with neighbouring chunks.
type lighter struct {
	translucent []bool
	luminance   []uint8
}

func newLighter(reg *block.Registry) *lighter {
	all := reg.All()
	l := &lighter{
		translucent: make([]bool, len(all)),
		luminance:   make([]uint8, len(all)),
	}
	for _, b := range all {
		l.translucent[b.ID] = b.Translucent
		l.luminance[b.ID] = b.Luminance
	}
	return l
}

func (l *lighter) passes(id block.ID) bool {
	return int(id) < len(l.translucent) && l.translucent[id]
}

func (l *lighter) emits(id block.ID) uint8 {
	if int(id) >= len(l.luminance) {
		return 0
	}
	return min(l.luminance[id], chunk.MaxLight)
}

// process fills sunlight regen per column, derives sunlight from it and
// spreads sunlight and block luminance through translucent blocks.
//
// Regen is MaxSunlightRegen in cells open to the sky, resets to zero in
// opaque blocks and grows by one per translucent cell below them. Sunlight
// is what regen exceeds MaxSunlightRegen-MaxSunlight by.
func (l *lighter) process(c *chunk.Chunk) {
	var sun, glow []geom.Vec3i
	for z := range chunk.SizeZ {
		for x := range chunk.SizeX {
			regen := chunk.MaxSunlightRegen
			for y := chunk.SizeY - 1; y >= 0; y-- {
				id := c.Block(x, y, z)
				if l.passes(id) {
					regen = min(regen+1, chunk.MaxSunlightRegen)
				} else {
					regen = 0
				}
				c.SetSunlightRegen(x, y, z, uint8(regen))
				if s := regen - (chunk.MaxSunlightRegen - chunk.MaxSunlight); s > 0 {
					c.SetSunlight(x, y, z, uint8(s))
					sun = append(sun, geom.Vec3i{X: x, Y: y, Z: z})
				}
				if lum := l.emits(id); lum > 0 {
					c.SetLight(x, y, z, lum)
					glow = append(glow, geom.Vec3i{X: x, Y: y, Z: z})
				}
			}
		}
	}
	l.spread(c, sun, c.Sunlight, c.SetSunlight)
	l.spread(c, glow, c.Light, c.SetLight)
}

// spread runs a breadth-first flood from the seeds, losing one level per
// step, without leaving the chunk.
func (l *lighter) spread(c *chunk.Chunk, queue []geom.Vec3i, get func(x, y, z int) uint8, set func(x, y, z int, v uint8) bool) {
	for i := 0; i < len(queue); i++ {
		p := queue[i]
		v := get(p.X, p.Y, p.Z)
		if v <= 1 {
			continue
		}
		for _, d := range sides {
			n := p.Add(d)
			if !chunk.InBounds(n.X, n.Y, n.Z) || !l.passes(c.Block(n.X, n.Y, n.Z)) {
				continue
			}
			if get(n.X, n.Y, n.Z) < v-1 {
				set(n.X, n.Y, n.Z, v-1)
				queue = append(queue, n)
			}
		}
	}
}

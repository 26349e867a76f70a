package facets

import (
	"fmt"

	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

func outOfBounds(kind string, x, z int, area geom.BlockArea) string {
	return fmt.Sprintf("%s: column (%d, %d) outside %v..%v", kind, x, z, area.Min, area.Max)
}

func outOfBounds3(kind string, x, y, z int, r geom.BlockRegion) string {
	return fmt.Sprintf("%s: position (%d, %d, %d) outside %v", kind, x, y, z, r)
}

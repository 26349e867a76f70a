// Package gen holds the built-in facet providers, rasterizers and data
// providers, registered by name in generation.Plugins.
package gen

import "github.com/OCharnyshevich/worldgen/pkg/world/generation"

func init() {
	Register(generation.Plugins)
}

// Register adds the built-in generators to lib.
func Register(lib *generation.PluginLibrary) {
	providers := map[string]func() generation.FacetProvider{
		"sea_level":    func() generation.FacetProvider { return NewSeaLevelProvider() },
		"elevation":    func() generation.FacetProvider { return NewElevationProvider() },
		"climate":      func() generation.FacetProvider { return NewClimateProvider() },
		"biome":        func() generation.FacetProvider { return NewBiomeProvider() },
		"surface":      func() generation.FacetProvider { return NewSurfaceProvider() },
		"density":      func() generation.FacetProvider { return NewDensityProvider() },
		"caves":        func() generation.FacetProvider { return NewCaveUpdater() },
		"trees":        func() generation.FacetProvider { return NewTreeProvider() },
		"spawns":       func() generation.FacetProvider { return NewSpawnProvider() },
		"flat_surface": func() generation.FacetProvider { return NewFlatSurfaceProvider() },
	}
	for name, f := range providers {
		lib.RegisterProvider(name, f)
	}

	rasterizers := map[string]func() generation.WorldRasterizer{
		"solid": func() generation.WorldRasterizer { return NewSolidRasterizer() },
		"ores":  func() generation.WorldRasterizer { return NewOreRasterizer() },
		"flora": func() generation.WorldRasterizer { return NewFloraRasterizer() },
		"flat":  func() generation.WorldRasterizer { return NewFlatRasterizer() },
	}
	for name, f := range rasterizers {
		lib.RegisterRasterizer(name, f)
	}

	lib.RegisterEntityProvider("spawns", func() generation.EntityProvider { return NewSpawnEntityProvider() })

	lib.RegisterDataProvider("noise_height", func() generation.DataProvider { return NewNoiseHeight() })
	lib.RegisterDataProvider("terrace", func() generation.DataProvider { return NewTerraceSampler() })
	lib.RegisterDataProvider("spawn_locator", func() generation.DataProvider { return NewSpawnLocator() })
}

package generation

import (
	"fmt"
	"math"
)

// Update priorities. An updater with a higher priority runs before one with
// a lower priority on the same facet.
const (
	PriorityCritical = 250
	PriorityHigh     = 200
	PriorityNormal   = 100
	PriorityLow      = 50
	PriorityLowest   = 0

	// priorityRequires is the level at which a requirement reads a facet:
	// after every updater.
	priorityRequires = -1
	// priorityProduces is the level at which a producer touches its facet:
	// before every updater.
	priorityProduces = math.MaxInt32
)

// PriorityString renders a priority for diagnostics.
func PriorityString(p int) string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	case PriorityLowest:
		return "lowest"
	}
	return fmt.Sprintf("%d", p)
}

// FacetRequirement is a facet read by a provider or rasterizer, with the
// border it needs around the region.
type FacetRequirement struct {
	Key    FacetKey
	Border Border3D
}

// FacetUpdate is a facet modified in place by a provider.
type FacetUpdate struct {
	Key      FacetKey
	Border   Border3D
	Priority int
}

// ProviderSpec declares the facets a provider touches.
type ProviderSpec struct {
	Produces []FacetKey
	Requires []FacetRequirement
	Updates  []FacetUpdate
}

func (s ProviderSpec) produces(key FacetKey) bool {
	for _, k := range s.Produces {
		if k == key {
			return true
		}
	}
	return false
}

func (s ProviderSpec) update(key FacetKey) (FacetUpdate, bool) {
	for _, u := range s.Updates {
		if u.Key == key {
			return u, true
		}
	}
	return FacetUpdate{}, false
}

func (s ProviderSpec) requires(key FacetKey) bool {
	for _, r := range s.Requires {
		if r.Key == key {
			return true
		}
	}
	return false
}

// priority returns the level at which a provider with this spec reads key.
func (s ProviderSpec) priority(key FacetKey) int {
	if u, ok := s.update(key); ok {
		return u.Priority
	}
	if s.requires(key) {
		return priorityRequires
	}
	return priorityProduces
}

// FacetProvider computes facets for a GeneratingRegion.
type FacetProvider interface {
	Spec() ProviderSpec
	SetSeed(seed int64)
	Initialize()
	Process(region GeneratingRegion)
}

// ScalableFacetProvider can also compute facets at reduced resolution. Facet
// cells map to world positions multiplied by scale.
type ScalableFacetProvider interface {
	FacetProvider
	ProcessScaled(region GeneratingRegion, scale float32)
}

// ConfigurableProvider exposes a configuration value that presets decode
// into. Configuration returns a pointer.
type ConfigurableProvider interface {
	FacetProvider
	ConfigurationName() string
	Configuration() any
}

// BaseProvider gives providers no-op SetSeed and Initialize.
type BaseProvider struct{}

func (BaseProvider) SetSeed(int64) {}
func (BaseProvider) Initialize() {}

type named interface {
	Name() string
}

func nameOf(v any) string {
	if n, ok := v.(named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", v)
}

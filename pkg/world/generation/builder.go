package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
)

// WorldBuilder assembles providers, rasterizers and entity providers into a
// World.
type WorldBuilder struct {
	log       *slog.Logger
	plugins   *PluginLibrary
	seed      *int64
	seaLevel  int
	providers []FacetProvider
	rasters   []WorldRasterizer
	entities  []EntityProvider
	data      []DataProvider
	listeners []FacetListener

	// requiredBy and providedBy track the chain being built, for cycle
	// detection.
	requiredBy map[FacetKey]FacetProvider
	providedBy map[FacetKey]FacetProvider
}

// DefaultSeaLevel is used when SetSeaLevel is not called.
const DefaultSeaLevel = 32

// NewWorldBuilder returns an empty builder. plugins may be nil.
func NewWorldBuilder(plugins *PluginLibrary, log *slog.Logger) *WorldBuilder {
	if log == nil {
		log = slog.Default()
	}
	return &WorldBuilder{log: log, plugins: plugins, seaLevel: DefaultSeaLevel}
}

// SetSeed sets the world seed. Build fails without one.
func (b *WorldBuilder) SetSeed(seed int64) *WorldBuilder {
	b.seed = &seed
	return b
}

// SetSeaLevel sets the sea level in blocks.
func (b *WorldBuilder) SetSeaLevel(level int) *WorldBuilder {
	b.seaLevel = level
	return b
}

// AddProvider registers a facet provider.
func (b *WorldBuilder) AddProvider(p FacetProvider) *WorldBuilder {
	b.providers = append(b.providers, p)
	return b
}

// AddRasterizer registers a rasterizer.
func (b *WorldBuilder) AddRasterizer(r WorldRasterizer) *WorldBuilder {
	b.rasters = append(b.rasters, r)
	return b
}

// AddEntities registers an entity provider.
func (b *WorldBuilder) AddEntities(e EntityProvider) *WorldBuilder {
	b.entities = append(b.entities, e)
	return b
}

// AddDataProvider appends a data provider layer. A later layer providing the
// same capability wraps the earlier one.
func (b *WorldBuilder) AddDataProvider(d DataProvider) *WorldBuilder {
	b.data = append(b.data, d)
	return b
}

// AddListener registers a listener notified for every computed facet.
func (b *WorldBuilder) AddListener(l FacetListener) *WorldBuilder {
	b.listeners = append(b.listeners, l)
	return b
}

// AddPlugins instantiates every plugin registered in the plugin library.
func (b *WorldBuilder) AddPlugins() *WorldBuilder {
	if b.plugins == nil {
		return b
	}
	for _, p := range b.plugins.instantiateProviderPlugins() {
		b.AddProvider(p)
	}
	for _, r := range b.plugins.instantiateRasterizerPlugins() {
		b.AddRasterizer(r)
	}
	for _, e := range b.plugins.instantiateEntityPlugins() {
		b.AddEntities(e)
	}
	return b
}

// Configurator lists the configurable providers added so far.
func (b *WorldBuilder) Configurator() *Configurator {
	return newConfigurator(b.providers)
}

// Build seeds the providers, and the rasterizers and entity providers that
// take a seed, then resolves the provider graph.
func (b *WorldBuilder) Build() (*World, error) {
	if b.seed == nil {
		return nil, ErrNoSeed
	}
	for _, p := range b.providers {
		p.SetSeed(*b.seed)
	}
	for _, r := range b.rasters {
		if s, ok := r.(seedable); ok {
			s.SetSeed(*b.seed)
		}
	}
	for _, e := range b.entities {
		if s, ok := e.(seedable); ok {
			s.SetSeed(*b.seed)
		}
	}

	facets, err := b.collectFacets()
	if err != nil {
		return nil, err
	}
	chains, err := b.determineProviderChains(facets, false)
	if err != nil {
		return nil, err
	}
	scalableChains, err := b.determineProviderChains(facets, true)
	if err != nil {
		return nil, err
	}
	rasters := b.ensureRasterizerOrdering(chains, false)
	scalableRasters := b.ensureRasterizerOrdering(scalableChains, true)

	w := &World{
		log:                 b.log,
		seed:                *b.seed,
		seaLevel:            b.seaLevel,
		chains:              chains,
		scalableChains:      scalableChains,
		rasterizers:         rasters,
		scalableRasterizers: scalableRasters,
		entityProviders:     append([]EntityProvider(nil), b.entities...),
		borders:             b.determineBorders(facets, chains, rasters),
		dataProviders:       b.resolveDataProviders(),
		configurator:        b.Configurator(),
		listeners:           append([]FacetListener(nil), b.listeners...),
	}
	return w, nil
}

// collectFacets returns every facet produced or updated, in provider order,
// and checks that each required facet has a provider.
func (b *WorldBuilder) collectFacets() ([]FacetKey, error) {
	var facets []FacetKey
	seen := map[FacetKey]bool{}
	add := func(k FacetKey) {
		if !seen[k] {
			seen[k] = true
			facets = append(facets, k)
		}
	}
	for _, p := range b.providers {
		spec := p.Spec()
		for _, k := range spec.Produces {
			add(k)
		}
		for _, u := range spec.Updates {
			add(u.Key)
		}
	}
	for _, p := range b.providers {
		for _, r := range p.Spec().Requires {
			if !seen[r.Key] {
				b.log.Error("facet provider is missing", "facet", r.Key, "required_by", nameOf(p))
				return nil, fmt.Errorf("facet %s required by %s: %w", r.Key, nameOf(p), ErrMissingProvider)
			}
		}
	}
	return facets, nil
}

func (b *WorldBuilder) determineProviderChains(facets []FacetKey, scalable bool) (map[FacetKey][]FacetProvider, error) {
	result := map[FacetKey][]FacetProvider{}
	for _, facet := range facets {
		b.requiredBy = map[FacetKey]FacetProvider{}
		b.providedBy = map[FacetKey]FacetProvider{}
		ordered := &orderedSet{index: map[FacetProvider]bool{}}
		if err := b.addProviderChain(facet, scalable, math.MinInt32, ordered); err != nil {
			return nil, err
		}
		if len(ordered.items) > 0 {
			result[facet] = ordered.items
		}
		if b.log.Enabled(context.Background(), slog.LevelDebug) {
			names := make([]string, len(ordered.items))
			for i, p := range ordered.items {
				names[i] = nameOf(p)
			}
			b.log.Debug("provider chain", "facet", facet, "scalable", scalable, "providers", strings.Join(names, ", "))
		}
	}
	return result, nil
}

type orderedSet struct {
	items []FacetProvider
	index map[FacetProvider]bool
}

func (s *orderedSet) add(p FacetProvider) {
	if !s.index[p] {
		s.index[p] = true
		s.items = append(s.items, p)
	}
}

func acceptsScale(p FacetProvider, scalable bool) bool {
	if !scalable {
		return true
	}
	_, ok := p.(ScalableFacetProvider)
	return ok
}

// addProviderChain adds the producer of facet and its updaters with a
// priority above minPriority, highest priority first, each preceded by its
// own dependencies.
func (b *WorldBuilder) addProviderChain(facet FacetKey, scalable bool, minPriority int, ordered *orderedSet) error {
	var producer FacetProvider
	for _, p := range b.providers {
		if !p.Spec().produces(facet) || !acceptsScale(p, scalable) {
			continue
		}
		if producer != nil {
			b.log.Warn("facet already produced, overwriting", "facet", facet, "previous", nameOf(producer), "provider", nameOf(p))
		}
		b.providedBy[facet] = p
		if err := b.addRequirements(facet, p, scalable, ordered); err != nil {
			return err
		}
		producer = p
	}

	var updaters []FacetProvider
	for _, p := range b.providers {
		u, ok := p.Spec().update(facet)
		if ok && acceptsScale(p, scalable) && u.Priority > minPriority {
			updaters = append(updaters, p)
		}
	}
	sort.SliceStable(updaters, func(i, j int) bool {
		return updaters[i].Spec().priority(facet) > updaters[j].Spec().priority(facet)
	})
	for _, p := range updaters {
		b.providedBy[facet] = p
		if err := b.addRequirements(facet, p, scalable, ordered); err != nil {
			return err
		}
	}
	return nil
}

// addRequirements adds p after the chains of the facets it reads, other than
// providedFacet which is already being resolved.
func (b *WorldBuilder) addRequirements(providedFacet FacetKey, p FacetProvider, scalable bool, ordered *orderedSet) error {
	if ordered.index[p] {
		return nil
	}
	spec := p.Spec()
	reads := make([]FacetKey, 0, len(spec.Updates)+len(spec.Requires))
	for _, u := range spec.Updates {
		reads = append(reads, u.Key)
	}
	for _, r := range spec.Requires {
		reads = append(reads, r.Key)
	}

	for _, key := range reads {
		if key == providedFacet {
			continue
		}
		last, hadLast := b.requiredBy[key]
		b.requiredBy[key] = p

		if hadLast && last.Spec().priority(key) <= spec.priority(key) {
			return b.circularError(providedFacet, p, key)
		}

		if err := b.addProviderChain(key, scalable, spec.priority(key), ordered); err != nil {
			return err
		}

		if hadLast {
			b.requiredBy[key] = last
		} else {
			delete(b.requiredBy, key)
		}
	}
	ordered.add(p)
	return nil
}

func (b *WorldBuilder) circularError(providedFacet FacetKey, p FacetProvider, key FacetKey) error {
	other := b.providedBy[key]
	help := ""
	if other != nil {
		if _, ok := other.Spec().update(key); ok {
			help = fmt.Sprintf("; maybe the priority of %s could be adjusted below %s",
				nameOf(other), PriorityString(p.Spec().priority(key)))
		} else if _, ok := p.Spec().update(providedFacet); ok {
			help = fmt.Sprintf("; maybe the priority of %s could be adjusted below %s",
				nameOf(p), PriorityString(other.Spec().priority(providedFacet)))
		}
	}
	return fmt.Errorf("%w: %s provides %s and requires %s, %s provides %s and requires %s%s",
		ErrCircularDependency, nameOf(p), providedFacet, key, nameOf(other), key, providedFacet, help)
}

// determineBorders walks providers from the last consumer back to the first
// producer, growing the border of each facet read so that everything
// downstream sees valid data over its own border.
func (b *WorldBuilder) determineBorders(facets []FacetKey, chains map[FacetKey][]FacetProvider, rasters []WorldRasterizer) map[FacetKey]Border3D {
	ordered := &orderedSet{index: map[FacetProvider]bool{}}
	for _, facet := range facets {
		for _, p := range chains[facet] {
			ordered.add(p)
		}
	}

	borders := map[FacetKey]Border3D{}
	for _, r := range rasters {
		for _, req := range r.Requires() {
			borders[req.Key] = req.Border.Max(borders[req.Key])
		}
	}

	for i := len(ordered.items) - 1; i >= 0; i-- {
		spec := ordered.items[i].Spec()

		var required Border3D
		for _, k := range spec.Produces {
			if fb, ok := borders[k]; ok {
				required = required.Max(fb)
			}
		}
		for _, u := range spec.Updates {
			if fb, ok := borders[u.Key]; ok {
				required = required.Max(fb)
			}
		}

		for _, u := range spec.Updates {
			borders[u.Key] = required.ExtendBy(u.Border).Max(borders[u.Key])
		}
		for _, r := range spec.Requires {
			borders[r.Key] = required.ExtendBy(r.Border).Max(borders[r.Key])
		}
	}
	return borders
}

// ensureRasterizerOrdering places each rasterizer after the rasterizers it
// names. Rasterizers whose required facets have no chain are skipped.
func (b *WorldBuilder) ensureRasterizerOrdering(chains map[FacetKey][]FacetProvider, scalable bool) []WorldRasterizer {
	var ordered []WorldRasterizer
	added := map[string]bool{}

	tryAdd := func(r WorldRasterizer) {
		if added[r.Name()] {
			return
		}
		added[r.Name()] = true
		if scalable {
			if _, ok := r.(ScalableRasterizer); !ok {
				return
			}
		}
		for _, req := range r.Requires() {
			if _, ok := chains[req.Key]; !ok {
				b.log.Debug("skipping rasterizer without facet chain", "rasterizer", r.Name(), "facet", req.Key, "scalable", scalable)
				return
			}
		}
		ordered = append(ordered, r)
	}

	for _, r := range b.rasters {
		if or, ok := r.(OrderedRasterizer); ok {
			for _, name := range or.RequiresRasterizers() {
				for _, dep := range b.rasters {
					if dep.Name() == name {
						tryAdd(dep)
					}
				}
			}
		}
		tryAdd(r)
	}
	return ordered
}

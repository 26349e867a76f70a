package generation

// DataProvider is a non-facet world data service, such as a height sampler,
// looked up by capability name. Providers of the same capability form a
// decorator chain in registration order: each new layer receives the
// previous one through Bind.
type DataProvider interface {
	Capability() string
	// Dependencies names other capabilities this layer reads.
	Dependencies() []string
	// Bind hands the layer the one it wraps (nil for the first) and the
	// resolved dependencies. Unresolved dependencies are absent from deps.
	Bind(prev DataProvider, deps map[string]DataProvider)
}

// ProviderAware is implemented by data providers that sample the same
// terrain as the facet providers. BindProviders receives every facet
// provider of the world after they are seeded and configured.
type ProviderAware interface {
	BindProviders(providers []FacetProvider)
}

type seedable interface {
	SetSeed(seed int64)
}

type seaLevelAware interface {
	SetSeaLevel(level int)
}

// resolveDataProviders seeds every layer, wires the decorator chains, then the dependencies
// against the outermost layer of each capability.
func (b *WorldBuilder) resolveDataProviders() map[string]DataProvider {
	heads := map[string]DataProvider{}
	prevs := make([]DataProvider, len(b.data))
	for i, d := range b.data {
		if s, ok := d.(seedable); ok {
			s.SetSeed(*b.seed)
		}
		if s, ok := d.(seaLevelAware); ok {
			s.SetSeaLevel(b.seaLevel)
		}
		if pa, ok := d.(ProviderAware); ok {
			pa.BindProviders(b.providers)
		}
		prevs[i] = heads[d.Capability()]
		heads[d.Capability()] = d
	}
	for i, d := range b.data {
		deps := map[string]DataProvider{}
		for _, name := range d.Dependencies() {
			// A layer reaches its own capability through prev only.
			if name == d.Capability() {
				b.log.Error("data provider depends on its own capability", "provider", nameOf(d), "dependency", name)
				continue
			}
			dep, ok := heads[name]
			if !ok {
				b.log.Error("unable to resolve data provider dependency", "provider", nameOf(d), "dependency", name)
				continue
			}
			deps[name] = dep
		}
		d.Bind(prevs[i], deps)
	}
	return heads
}

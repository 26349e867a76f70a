package generation

import (
	"fmt"
	"sort"
	"sync"
)

type entry[T any] struct {
	factory func() T
	plugin  bool
}

// PluginLibrary maps names to provider, rasterizer, entity provider and
// data provider factories. Entries registered as plugins are added to every world by
// WorldBuilder.AddPlugins; the rest are instantiated by name.
type PluginLibrary struct {
	mu          sync.RWMutex
	providers   map[string]entry[FacetProvider]
	rasterizers map[string]entry[WorldRasterizer]
	entities    map[string]entry[EntityProvider]
	data        map[string]entry[DataProvider]
}

// NewPluginLibrary returns an empty library.
func NewPluginLibrary() *PluginLibrary {
	return &PluginLibrary{
		providers:   map[string]entry[FacetProvider]{},
		rasterizers: map[string]entry[WorldRasterizer]{},
		entities:    map[string]entry[EntityProvider]{},
		data:        map[string]entry[DataProvider]{},
	}
}

// Plugins is the library the built-in generators register into.
var Plugins = NewPluginLibrary()

// RegisterProvider registers a provider factory by name.
func (l *PluginLibrary) RegisterProvider(name string, factory func() FacetProvider) {
	l.mu.Lock()
	l.providers[name] = entry[FacetProvider]{factory: factory}
	l.mu.Unlock()
}

// RegisterRasterizer registers a rasterizer factory by name.
func (l *PluginLibrary) RegisterRasterizer(name string, factory func() WorldRasterizer) {
	l.mu.Lock()
	l.rasterizers[name] = entry[WorldRasterizer]{factory: factory}
	l.mu.Unlock()
}

// RegisterEntityProvider registers an entity provider factory by name.
func (l *PluginLibrary) RegisterEntityProvider(name string, factory func() EntityProvider) {
	l.mu.Lock()
	l.entities[name] = entry[EntityProvider]{factory: factory}
	l.mu.Unlock()
}

// RegisterDataProvider registers a data provider factory by name.
func (l *PluginLibrary) RegisterDataProvider(name string, factory func() DataProvider) {
	l.mu.Lock()
	l.data[name] = entry[DataProvider]{factory: factory}
	l.mu.Unlock()
}

// RegisterProviderPlugin registers a provider that AddPlugins adds to every world.
func (l *PluginLibrary) RegisterProviderPlugin(name string, factory func() FacetProvider) {
	l.mu.Lock()
	l.providers[name] = entry[FacetProvider]{factory: factory, plugin: true}
	l.mu.Unlock()
}

// RegisterRasterizerPlugin registers a rasterizer that AddPlugins adds to every world.
func (l *PluginLibrary) RegisterRasterizerPlugin(name string, factory func() WorldRasterizer) {
	l.mu.Lock()
	l.rasterizers[name] = entry[WorldRasterizer]{factory: factory, plugin: true}
	l.mu.Unlock()
}

// RegisterEntityPlugin registers an entity provider that AddPlugins adds to every world.
func (l *PluginLibrary) RegisterEntityPlugin(name string, factory func() EntityProvider) {
	l.mu.Lock()
	l.entities[name] = entry[EntityProvider]{factory: factory, plugin: true}
	l.mu.Unlock()
}

// NewProvider instantiates the named provider.
func (l *PluginLibrary) NewProvider(name string) (FacetProvider, error) {
	l.mu.RLock()
	e, ok := l.providers[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown facet provider: %s", name)
	}
	return e.factory(), nil
}

// NewRasterizer instantiates the named rasterizer.
func (l *PluginLibrary) NewRasterizer(name string) (WorldRasterizer, error) {
	l.mu.RLock()
	e, ok := l.rasterizers[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown rasterizer: %s", name)
	}
	return e.factory(), nil
}

// NewEntityProvider instantiates the named entity provider.
func (l *PluginLibrary) NewEntityProvider(name string) (EntityProvider, error) {
	l.mu.RLock()
	e, ok := l.entities[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown entity provider: %s", name)
	}
	return e.factory(), nil
}

// NewDataProvider instantiates the named data provider.
func (l *PluginLibrary) NewDataProvider(name string) (DataProvider, error) {
	l.mu.RLock()
	e, ok := l.data[name]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown data provider: %s", name)
	}
	return e.factory(), nil
}

// Registered names, sorted.
func (l *PluginLibrary) ProviderNames() []string     { return sortedKeys(&l.mu, l.providers) }
func (l *PluginLibrary) RasterizerNames() []string   { return sortedKeys(&l.mu, l.rasterizers) }
func (l *PluginLibrary) EntityNames() []string       { return sortedKeys(&l.mu, l.entities) }
func (l *PluginLibrary) DataProviderNames() []string { return sortedKeys(&l.mu, l.data) }

func sortedKeys[T any](mu *sync.RWMutex, m map[string]entry[T]) []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func instantiatePlugins[T any](mu *sync.RWMutex, m map[string]entry[T]) []T {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(m))
	for n, e := range m {
		if e.plugin {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	out := make([]T, 0, len(names))
	for _, n := range names {
		out = append(out, m[n].factory())
	}
	return out
}

func (l *PluginLibrary) instantiateProviderPlugins() []FacetProvider {
	return instantiatePlugins(&l.mu, l.providers)
}

func (l *PluginLibrary) instantiateRasterizerPlugins() []WorldRasterizer {
	return instantiatePlugins(&l.mu, l.rasterizers)
}

func (l *PluginLibrary) instantiateEntityPlugins() []EntityProvider {
	return instantiatePlugins(&l.mu, l.entities)
}

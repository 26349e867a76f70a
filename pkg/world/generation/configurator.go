package generation

import "sort"

// Configurator indexes configurable providers by configuration name.
type Configurator struct {
	byName map[string]ConfigurableProvider
}

func newConfigurator(providers []FacetProvider) *Configurator {
	c := &Configurator{byName: map[string]ConfigurableProvider{}}
	for _, p := range providers {
		if cp, ok := p.(ConfigurableProvider); ok {
			c.byName[cp.ConfigurationName()] = cp
		}
	}
	return c
}

// Names returns the configuration names in sorted order.
func (c *Configurator) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the provider configured under name.
func (c *Configurator) Lookup(name string) (ConfigurableProvider, bool) {
	p, ok := c.byName[name]
	return p, ok
}

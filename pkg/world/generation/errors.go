package generation

import "errors"

var (
	// ErrNoSeed is returned by Build when SetSeed was never called.
	ErrNoSeed = errors.New("seed has not been set")
	// ErrMissingProvider is returned when a required facet has no producer.
	ErrMissingProvider = errors.New("missing facet provider")
	// ErrCircularDependency is returned when provider chains form a cycle.
	ErrCircularDependency = errors.New("circular dependency detected")
)

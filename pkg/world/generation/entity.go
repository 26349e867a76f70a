package generation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/OCharnyshevich/worldgen/pkg/world/geom"
)

var entityNamespace = uuid.MustParse("6f1c2d3e-8a4b-4c5d-9e6f-7a8b9c0d1e2f")

// EntityStore describes an entity to spawn.
type EntityStore struct {
	ID         uuid.UUID
	Prefab     string
	Position   geom.Vec3i
	Components map[string]any
}

// NewEntityStore returns a spawn request whose ID is derived from the prefab
// and position, so regenerating a chunk yields the same IDs.
func NewEntityStore(prefab string, pos geom.Vec3i) EntityStore {
	return EntityStore{
		ID:         uuid.NewSHA1(entityNamespace, []byte(fmt.Sprintf("%s@%d,%d,%d", prefab, pos.X, pos.Y, pos.Z))),
		Prefab:     prefab,
		Position:   pos,
		Components: map[string]any{},
	}
}

// EntityBuffer collects spawn requests produced off the main goroutine.
type EntityBuffer interface {
	Enqueue(e EntityStore)
}

// Buffer is an EntityBuffer drained by the owner of the entity manager.
type Buffer struct {
	mu    sync.Mutex
	items []EntityStore
}

// Enqueue adds a spawn request. Safe for concurrent use.
func (b *Buffer) Enqueue(e EntityStore) {
	b.mu.Lock()
	b.items = append(b.items, e)
	b.mu.Unlock()
}

// Drain returns and clears the queued requests.
func (b *Buffer) Drain() []EntityStore {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}

// Len returns the number of queued requests.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Package block defines block types and the registry mapping block names to
// the dense 16-bit ids stored in chunks.
package block

import (
	"fmt"
	"sort"
	"sync"
)

// ID is the dense numeric id of a block as stored in a chunk.
type ID uint16

// Air is always id 0.
const Air ID = 0

// Block describes a block type.
type Block struct {
	ID          ID
	Name        string
	Translucent bool
	Liquid      bool
	Penetrable  bool
	Luminance   uint8
}

// Registry assigns ids to block names. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byID   []Block
	byName map[string]ID
}

// NewRegistry returns a registry holding only air.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]ID{}}
	r.byID = append(r.byID, Block{ID: Air, Name: "air", Translucent: true, Penetrable: true})
	r.byName["air"] = Air
	return r
}

// Register adds a block and returns its id. Registering a name that already
// exists returns the existing id.
func (r *Registry) Register(b Block) (ID, error) {
	if b.Name == "" {
		return 0, fmt.Errorf("register block: empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.byName[b.Name]; ok {
		return id, nil
	}
	if len(r.byID) > 0xFFFF {
		return 0, fmt.Errorf("register block %s: id space exhausted", b.Name)
	}
	b.ID = ID(len(r.byID))
	r.byID = append(r.byID, b)
	r.byName[b.Name] = b.ID
	return b.ID, nil
}

// ByID returns the block registered under id.
func (r *Registry) ByID(id ID) (Block, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.byID) {
		return Block{}, false
	}
	return r.byID[id], true
}

// ByName returns the block registered under name.
func (r *Registry) ByName(name string) (Block, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return Block{}, false
	}
	return r.byID[id], true
}

// MustID returns the id of a registered block and panics otherwise.
func (r *Registry) MustID(name string) ID {
	b, ok := r.ByName(name)
	if !ok {
		panic(fmt.Sprintf("block %q not registered", name))
	}
	return b.ID
}

// All returns every registered block ordered by id.
func (r *Registry) All() []Block {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Block, len(r.byID))
	copy(out, r.byID)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered blocks, air included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

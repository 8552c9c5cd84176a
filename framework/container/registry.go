package container

import (
	"slices"
	"sync"
)

// Registry maps capability identifiers to recipes. Writes are expected
// during setup; the resolver only ever reads.
type Registry struct {
	mu      sync.RWMutex
	recipes map[string]*Recipe
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{recipes: make(map[string]*Recipe)}
}

// Register stores r under its key. An existing recipe is replaced, never merged.
func (g *Registry) Register(r *Recipe) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.recipes[r.key] = r
}

// Lookup returns the recipe for key or ErrUnregisteredCapability.
func (g *Registry) Lookup(key string) (*Recipe, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.recipes[key]
	if !ok {
		return nil, ErrUnregisteredCapability
	}
	return r, nil
}

func (g *Registry) Has(key string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.recipes[key]
	return ok
}

// Forget removes the recipe for key, if any.
func (g *Registry) Forget(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.recipes, key)
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.recipes)
}

// Keys returns every registered key in sorted order.
func (g *Registry) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := make([]string, 0, len(g.recipes))
	for k := range g.recipes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

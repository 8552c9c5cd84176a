package container

import "slices"

// Graph is a static view of the registry: each key and the capability
// keys its recipe would resolve while building.
type Graph struct {
	nodes map[string][]string
	order []string
}

// Graph snapshots the current registrations. Aliased dependencies are
// folded onto their canonical key; dependencies with no recipe are dropped
// since the resolver would leave them unsupplied.
func (c *Container) Graph() *Graph {
	g := &Graph{nodes: make(map[string][]string)}
	for _, key := range c.registry.Keys() {
		recipe, err := c.registry.Lookup(key)
		if err != nil {
			continue
		}
		var deps []string
		for _, dep := range recipe.Dependencies() {
			dep = c.canonical(dep)
			if c.registry.Has(dep) {
				deps = append(deps, dep)
			}
		}
		g.nodes[key] = deps
		g.order = append(g.order, key)
	}
	return g
}

// Dependencies returns the direct dependencies of key.
func (g *Graph) Dependencies(key string) []string {
	return slices.Clone(g.nodes[key])
}

// TopologicalSort returns keys with every dependency before its
// dependents, or a ResolutionError wrapping ErrCyclicDependency.
func (g *Graph) TopologicalSort() ([]string, error) {
	visited := make(map[string]bool)
	visiting := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		if visited[name] {
			return nil
		}
		if visiting[name] {
			i := slices.Index(stack, name)
			cycle := append(slices.Clone(stack[i:]), name)
			return &ResolutionError{Key: name, Path: cycle, Err: ErrCyclicDependency}
		}
		visiting[name] = true
		stack = append(stack, name)
		for _, dep := range g.nodes[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		visiting[name] = false
		visited[name] = true
		result = append(result, name)
		return nil
	}

	for _, name := range g.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Validate reports the first dependency cycle among the current
// registrations without building anything.
func (c *Container) Validate() error {
	_, err := c.Graph().TopologicalSort()
	return err
}

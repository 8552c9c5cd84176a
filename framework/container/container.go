package container

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container: a Registry of recipes, a SingletonCache
// and a default Resolver with its own scope stack.
//
// It supports:
//   - Register / Bind / Scoped / Singleton / Instance / Alias
//   - Resolve / Make (generic) on the default resolver or a per-request one
//   - Scope / Enter / Exit for Scoped lifetimes
//   - Tags (group multiple capabilities under one tag)
//   - Resolved event callbacks
//   - Deferred loaders used by deferred service providers
type Container struct {
	registry   *Registry
	singletons *SingletonCache
	root       *Resolver

	log          *zap.Logger
	observer     Observer
	detectCycles bool

	mu sync.RWMutex

	// alias → canonical key
	aliases map[string]string

	// tag → []key
	tags map[string][]string

	// key → loader that registers the key on first use
	deferred map[string]*deferredLoader

	// resolved callbacks: []func(key, instance)
	afterResolving []func(string, any)
}

// New creates an empty container. The container is bound to itself as a
// pre-built singleton under "container" and Key[*Container]().
func New(opts ...Option) *Container {
	c := &Container{
		registry:     NewRegistry(),
		singletons:   NewSingletonCache(),
		log:          zap.NewNop(),
		observer:     nopObserver{},
		detectCycles: true,
		aliases:      make(map[string]string),
		tags:         make(map[string][]string),
		deferred:     make(map[string]*deferredLoader),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.root = newResolver(c)

	c.Instance(Key[*Container](), c)
	c.Alias(Key[*Container](), "container")
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register stores the recipe for key, replacing any previous one (last
// write wins). An alias registers its target. impl is not checked here; a
// bad implementation fails when the key is first resolved.
//
//	c.Register(container.Key[Database](),
//	    container.Ctor(NewPostgres, "connection_string"),
//	    container.Scoped,
//	    container.Params{"connection_string": "test"})
func (c *Container) Register(key string, impl any, lifetime Lifetime, params Params) {
	key = c.canonical(key)
	recipe := NewRecipe(key, impl, lifetime, params)
	c.registry.Register(recipe)
	c.log.Debug("registered",
		zap.String("key", key),
		zap.Stringer("lifetime", lifetime),
		zap.String("kind", recipe.Kind()),
	)
}

// Bind registers a transient recipe: a new instance on every resolution.
func (c *Container) Bind(key string, impl any, params Params) {
	c.Register(key, impl, Transient, params)
}

// Scoped registers a recipe whose instance is shared within one scope frame.
func (c *Container) Scoped(key string, impl any, params Params) {
	c.Register(key, impl, Scoped, params)
}

// Singleton registers a recipe whose instance is built once and shared by
// every scope and every resolver of the container.
func (c *Container) Singleton(key string, impl any, params Params) {
	c.Register(key, impl, Singleton, params)
}

// Instance registers a pre-built value as a singleton.
//
//	c.Instance(container.Key[*config.Config](), cfg)
func (c *Container) Instance(key string, instance any) {
	key = c.canonical(key)
	c.Register(key, Factory(func(Params) (any, error) { return instance, nil }), Singleton, nil)
	c.singletons.Seed(key, instance)
}

// Alias registers an alternative name for a key.
func (c *Container) Alias(key, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", key))
	}
	c.aliases[alias] = c.canonicalLocked(key)
}

// Tag associates multiple keys under a named group.
//
//	c.Tag([]string{"CpuReport", "MemoryReport"}, "reports")
func (c *Container) Tag(keys []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], keys...)
}

// Deferred installs a loader that runs the first time key is needed and
// is expected to register it. Loaders run at most once.
func (c *Container) Deferred(key string, load func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deferred[key] = &deferredLoader{load: load}
}

// AfterResolving registers a callback fired each time a new instance is
// built. Cache hits do not fire it.
func (c *Container) AfterResolving(cb func(key string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve resolves key on the container's default resolver.
func (c *Container) Resolve(key string) (any, error) { return c.root.Resolve(key) }

// Tagged resolves every key under tag on the default resolver.
func (c *Container) Tagged(tag string) ([]any, error) { return c.root.Tagged(tag) }

// Enter pushes a scope frame on the default resolver.
func (c *Container) Enter() *ScopeHandle { return c.root.Enter() }

// Exit pops the innermost frame of the default resolver.
func (c *Container) Exit() error { return c.root.Exit() }

// Scope runs fn inside a fresh frame of the default resolver.
func (c *Container) Scope(fn func(r *Resolver) error) error { return c.root.Scope(fn) }

// Root returns the default resolver.
func (c *Container) Root() *Resolver { return c.root }

// NewResolver returns a resolver with its own empty scope stack. It shares
// recipes and singletons with the container; use one per request.
func (c *Container) NewResolver() *Resolver { return newResolver(c) }

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether key (or the key it aliases) can be resolved:
// it has a recipe or a pending deferred loader.
func (c *Container) Bound(key string) bool {
	key = c.canonical(key)
	if c.registry.Has(key) {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.deferred[key]
	return ok
}

// Resolved reports whether a singleton instance exists for key.
func (c *Container) Resolved(key string) bool {
	return c.singletons.Has(c.canonical(key))
}

// Recipe returns the registered recipe for key.
func (c *Container) Recipe(key string) (*Recipe, error) {
	return c.registry.Lookup(c.canonical(key))
}

// Keys returns every registered key, sorted.
func (c *Container) Keys() []string { return c.registry.Keys() }

// Registry exposes the underlying registry (read-only use intended).
func (c *Container) Registry() *Registry { return c.registry }

func (c *Container) canonical(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.canonicalLocked(key)
}

func (c *Container) canonicalLocked(key string) string {
	if target, ok := c.aliases[key]; ok {
		return target
	}
	return key
}

func (c *Container) taggedKeys(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.tags[tag]...)
}

func (c *Container) fireAfterResolving(key string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(key, instance)
	}
}

// ── Deferred loading ──────────────────────────────────────────────────────────

type deferredLoader struct {
	once sync.Once
	load func() error
	err  error
}

// loadDeferred runs the loader for key if one is pending. loaded reports
// whether a loader existed.
func (c *Container) loadDeferred(key string) (loaded bool, err error) {
	c.mu.RLock()
	l, ok := c.deferred[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	l.once.Do(func() {
		c.log.Debug("loading deferred binding", zap.String("key", key))
		l.err = l.load()
	})
	if l.err != nil {
		return true, l.err
	}
	c.mu.Lock()
	if c.deferred[key] == l {
		delete(c.deferred, key)
	}
	c.mu.Unlock()
	return true, nil
}

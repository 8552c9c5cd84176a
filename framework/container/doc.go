// Package container provides an IoC (Inversion of Control) container with
// lifecycle-scoped resolution and a Service Provider system for Go.
//
// # Overview
//
// A Registry maps capability identifiers (strings, usually derived from a
// Go type with Key[T]) to recipes. A Resolver builds instances on demand,
// applying one of three lifetimes:
//
//   - Transient: a new instance on every resolution
//   - Scoped:    one instance per active scope frame
//   - Singleton: one instance for the container's entire life
//
// Because Go keeps no parameter names at runtime, constructor functions
// are registered with Ctor(fn, names...) so fixed params can be matched by
// name. Parameters without a fixed value are resolved by declared type.
//
// # Container Lifecycle
//
//  1. Create: c := container.New(container.WithLogger(log))
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        (safe to resolve everything after this)
//  4. Serve requests, one Resolver (and scope) per request
//
// # Registrations
//
//	// Singleton: constructed once
//	c.Singleton(container.Key[Logger](), NewConsoleLogger, nil)
//
//	// Scoped: fixed param matched by name
//	c.Scoped(container.Key[Database](),
//	    container.Ctor(NewPostgres, "connection_string"),
//	    container.Params{"connection_string": "postgres://localhost/app"})
//
//	// Transient: dependencies resolved by declared type
//	c.Bind(container.Key[AppService](),
//	    container.Ctor(NewBackend, "logger", "db", "app_name"),
//	    container.Params{"app_name": "SuperApp"})
//
//	// Struct: exported fields are optional parameters
//	c.Bind(container.Key[Reporter](), container.Struct[*Report](), nil)
//
//	// Opaque factory: called with the fixed params, never introspected
//	c.Bind(container.Key[Logger](), container.Factory(func(p container.Params) (any, error) {
//	    return NewSpecialLogger(), nil
//	}), nil)
//
//	// Pre-built value
//	c.Instance(container.Key[*config.Config](), cfg)
//
// # Resolving
//
//	err := c.Scope(func(r *container.Resolver) error {
//	    svc, err := container.Make[AppService](r)
//	    ...
//	})
//
// Resolving a Scoped capability outside a scope fails with ErrNoActiveScope.
// Nested scopes do not inherit entries from outer frames.
//
// # Cycles
//
// The resolver tracks the chain of capabilities being built and fails with
// ErrCyclicDependency when a key reappears. Validate checks the whole
// registry statically.
//
// # Service Providers
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	if err := registry.Boot(); err != nil { ... }
//
// Deferred providers register themselves the first time one of their
// Provides() keys is resolved.
package container

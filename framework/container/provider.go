package container

import (
	"errors"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the registrations of one feature. Providers are
// the composition root: everything is registered before resolution starts.
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton(container.Key[Logger](), NewConsoleLogger, nil)
//	}
//
//	func (p *AppServiceProvider) Boot(app *container.Container) error {
//	    _, err := container.Make[Logger](app)
//	    return err
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot() for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	// Safe to resolve and use any binding here.
	Boot(app *Container) error

	// Provides returns the keys this provider registers.
	// Used for deferred (lazy) provider loading.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() keys is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred providers.
type ProviderRegistry struct {
	app        *Container
	mu         sync.Mutex
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless
// deferred). A provider added after Boot is booted immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.mu.Unlock()
		r.registerDeferred(provider)
		return nil
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return provider.Boot(r.app)
	}
	return nil
}

// registerDeferred installs a container loader for every provided key.
// Whichever key is needed first registers (and, after Boot, boots) the
// provider; the other keys then find their recipes directly.
func (r *ProviderRegistry) registerDeferred(provider ServiceProvider) {
	var once sync.Once
	var err error
	load := func() error {
		once.Do(func() {
			provider.Register(r.app)
			r.mu.Lock()
			booted := r.booted
			r.mu.Unlock()
			if booted {
				err = provider.Boot(r.app)
			}
		})
		return err
	}
	for _, key := range provider.Provides() {
		r.app.Deferred(key, load)
	}
}

// Boot calls Boot() on all eager providers in registration order and
// joins their errors. Later calls are no-ops.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	var errs []error
	for _, provider := range providers {
		if err := provider.Boot(r.app); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

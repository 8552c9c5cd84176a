// Package providers wires the sample services into the container. Each
// profile is a ServiceProvider; the composition root registers exactly one.
package providers

import (
	"fmt"
	"io"

	"github.com/km-arc/go-injector/app/services"
	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
)

const (
	ProfileRelease = "release"
	ProfileDebug   = "debug"
)

// ConsoleProvider binds the writer console loggers print to.
type ConsoleProvider struct {
	container.BaseProvider
	Out io.Writer
}

func (p *ConsoleProvider) Register(app *container.Container) {
	app.Instance(container.Key[io.Writer](), p.Out)
}

// ── ReleaseProvider ──────────────────────────────────────────────────────────

// ReleaseProvider registers the production wiring:
//   - Logger     → *ConsoleLogger, singleton
//   - Database   → *PostgresDB, scoped unless DBLifetime says otherwise, with connection_string
//   - AppService → *BackendService, transient, with app_name
type ReleaseProvider struct {
	container.BaseProvider
	ConnectionString string
	AppName          string
	DBLifetime       container.Lifetime
}

func (p *ReleaseProvider) Register(app *container.Container) {
	app.Singleton(container.Key[services.Logger](), container.Struct[*services.ConsoleLogger](), nil)
	app.Register(container.Key[services.Database](),
		container.Ctor(services.NewPostgresDB, "connection_string"),
		p.DBLifetime,
		container.Params{"connection_string": p.ConnectionString})
	app.Bind(container.Key[services.AppService](), container.Struct[*services.BackendService](),
		container.Params{"app_name": p.AppName})
}

// ── DebugProvider ────────────────────────────────────────────────────────────

// DebugProvider swaps in the factory logger, an in-memory database and the
// test service.
type DebugProvider struct {
	container.BaseProvider
	Out io.Writer
}

func (p *DebugProvider) Register(app *container.Container) {
	app.Bind(container.Key[services.Logger](), services.CreateSpecialLogger(p.Out), nil)
	app.Singleton(container.Key[services.Database](), services.NewInMemoryDB, nil)
	app.Bind(container.Key[services.AppService](), container.Ctor(services.NewTestService, "logger"), nil)
}

// ForProfile returns the providers for the named profile.
func ForProfile(cfg *config.Config, out io.Writer) ([]container.ServiceProvider, error) {
	switch cfg.Container.Profile {
	case ProfileRelease:
		lifetime := container.Scoped
		if cfg.Container.DBLifetime != "" {
			var err error
			if lifetime, err = container.ParseLifetime(cfg.Container.DBLifetime); err != nil {
				return nil, fmt.Errorf("providers: %w", err)
			}
		}
		return []container.ServiceProvider{
			&ConsoleProvider{Out: out},
			&ReleaseProvider{
				ConnectionString: cfg.DB.ConnectionString,
				AppName:          cfg.App.Name,
				DBLifetime:       lifetime,
			},
		}, nil
	case ProfileDebug:
		return []container.ServiceProvider{
			&ConsoleProvider{Out: out},
			&DebugProvider{Out: out},
		}, nil
	}
	return nil, fmt.Errorf("providers: unknown profile %q", cfg.Container.Profile)
}

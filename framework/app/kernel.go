package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/logging"
	"github.com/km-arc/go-injector/framework/metrics"
	"github.com/km-arc/go-injector/framework/providers"
	"github.com/km-arc/go-injector/framework/routing"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	cfg *config.Config
	log *zap.Logger
}

// New loads configuration, builds the logger and metrics collector, and
// registers the framework providers.
func New(envFiles ...string) (*Application, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWith(cfg, log)
}

// NewWith builds an Application from an already loaded config and logger.
func NewWith(cfg *config.Config, log *zap.Logger) (*Application, error) {
	opts := []container.Option{
		container.WithLogger(log),
		container.WithCycleDetection(cfg.Container.DetectCycles),
	}

	var reg *prometheus.Registry
	if cfg.HTTP.Metrics {
		reg = prometheus.NewRegistry()
		collector, err := metrics.New(reg)
		if err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		opts = append(opts, container.WithObserver(collector))
	}

	c := container.New(opts...)
	a := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		cfg:       cfg,
		log:       log,
	}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{Config: cfg},
		&providers.LoggingServiceProvider{Logger: log},
		&providers.RoutingServiceProvider{},
	}
	if reg != nil {
		core = append(core, &providers.MetricsServiceProvider{Registry: reg})
	}
	for _, p := range core {
		if err := a.Register(p); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot checks the registrations for cycles, then runs the Boot() phase on
// all providers.
func (a *Application) Boot() error {
	if err := a.Validate(); err != nil {
		return err
	}
	return a.Providers.Boot()
}

func (a *Application) Config() *config.Config { return a.cfg }
func (a *Application) Log() *zap.Logger       { return a.log }

// Router resolves the router from the container.
func (a *Application) Router() (*routing.Router, error) {
	return container.Make[*routing.Router](a.Container)
}

// Run boots the application (if needed) and serves HTTP until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.HTTP.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("env", a.cfg.App.Env),
			zap.String("profile", a.cfg.Container.Profile),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.log.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (a *Application) Environment() string { return a.cfg.App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.cfg.IsProduction() }
func (a *Application) IsDebug() bool       { return a.cfg.App.Debug }

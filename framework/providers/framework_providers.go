package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/config"
	"github.com/km-arc/go-injector/framework/container"
	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/metrics"
	"github.com/km-arc/go-injector/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the loaded configuration.
//
// Bound keys:
//   - Key[*config.Config]()  (alias "config")
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	app.Instance(container.Key[*config.Config](), p.Config)
	app.Alias(container.Key[*config.Config](), "config")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger.
//
// Bound keys:
//   - Key[*zap.Logger]()  (alias "log")
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	app.Instance(container.Key[*zap.Logger](), p.Logger)
	app.Alias(container.Key[*zap.Logger](), "log")
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. The router is built by
// the container itself: its constructor asks for the container and the
// logger by type.
//
// Bound keys:
//   - Key[*routing.Router]()  (alias "router")
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton(container.Key[*routing.Router](), NewRouter, nil)
	app.Alias(container.Key[*routing.Router](), "router")
}

// NewRouter returns a router that logs every request and opens a fresh
// container scope for it.
func NewRouter(c *container.Container, log *zap.Logger) *routing.Router {
	r := routing.New()
	r.Middleware(routing.RequestLogger(log), gohttp.ScopeMiddleware(c, log))
	return r
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the Prometheus registry and, once booted,
// serves it on /metrics.
//
// Bound keys:
//   - Key[*prometheus.Registry]()
type MetricsServiceProvider struct {
	container.BaseProvider
	Registry *prometheus.Registry
}

func (p *MetricsServiceProvider) Register(app *container.Container) {
	app.Instance(container.Key[*prometheus.Registry](), p.Registry)
}

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	router, err := container.Make[*routing.Router](app)
	if err != nil {
		return err
	}
	router.Handle("/metrics", metrics.Handler(p.Registry))
	return nil
}

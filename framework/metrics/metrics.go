// Package metrics exports container resolution activity to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-injector/framework/container"
)

const namespace = "injector"

// Collector implements container.Observer.
type Collector struct {
	resolutions  *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	activeScopes prometheus.Gauge
}

var _ container.Observer = (*Collector)(nil)

// New creates the collector and registers its metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Successful resolutions by capability, lifetime and whether a new instance was built.",
		}, []string{"key", "lifetime", "source"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_failures_total",
			Help:      "Failed top-level resolutions by capability.",
		}, []string{"key"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Time spent resolving a capability, dependencies included.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"lifetime"}),
		activeScopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_scopes",
			Help:      "Scope frames currently open across all resolvers.",
		}),
	}
	for _, col := range []prometheus.Collector{c.resolutions, c.failures, c.duration, c.activeScopes} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Resolved(key string, lifetime container.Lifetime, cached bool, elapsed time.Duration) {
	source := "built"
	if cached {
		source = "cache"
	}
	c.resolutions.WithLabelValues(key, lifetime.String(), source).Inc()
	c.duration.WithLabelValues(lifetime.String()).Observe(elapsed.Seconds())
}

func (c *Collector) Failed(key string, _ error) {
	c.failures.WithLabelValues(key).Inc()
}

func (c *Collector) ScopeEntered(int) { c.activeScopes.Inc() }
func (c *Collector) ScopeExited(int)  { c.activeScopes.Dec() }

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

package container

import "time"

// Observer receives resolution events. Implementations must be safe for
// concurrent use; metrics.Collector is the stock one.
type Observer interface {
	// Resolved fires for every successful resolution, including nested
	// dependencies. cached is true when no new instance was built.
	Resolved(key string, lifetime Lifetime, cached bool, elapsed time.Duration)
	// Failed fires once per failed top-level resolution.
	Failed(key string, err error)
	ScopeEntered(depth int)
	ScopeExited(depth int)
}

type nopObserver struct{}

func (nopObserver) Resolved(string, Lifetime, bool, time.Duration) {}
func (nopObserver) Failed(string, error)                           {}
func (nopObserver) ScopeEntered(int)                               {}
func (nopObserver) ScopeExited(int)                                {}

package container

import "go.uber.org/zap"

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for debug traces of builds and scopes.
func WithLogger(log *zap.Logger) Option {
	return func(c *Container) {
		if log != nil {
			c.log = log.Named("container")
		}
	}
}

// WithObserver routes resolution events to o.
func WithObserver(o Observer) Option {
	return func(c *Container) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithCycleDetection toggles the resolution-path check. When disabled a
// cyclic graph recurses until the stack is exhausted; a cycle through a
// singleton blocks forever on its construction lock instead.
func WithCycleDetection(enabled bool) Option {
	return func(c *Container) {
		c.detectCycles = enabled
	}
}

package container

import (
	"fmt"
	"strings"
)

// Lifetime decides how long a resolved instance is reused.
type Lifetime int

const (
	// Transient builds a new instance on every resolution.
	Transient Lifetime = iota
	// Scoped reuses one instance per active scope frame.
	Scoped
	// Singleton reuses one instance for the container's entire life.
	Singleton
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// ParseLifetime maps a configuration string onto a Lifetime.
// "per_request" is accepted as a synonym for transient.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transient", "per_request", "per-request":
		return Transient, nil
	case "scoped":
		return Scoped, nil
	case "singleton":
		return Singleton, nil
	}
	return Transient, fmt.Errorf("container: unknown lifetime %q", s)
}

package container

import "fmt"

// Resolvable is anything that resolves keys: *Container and *Resolver.
type Resolvable interface {
	Resolve(key string) (any, error)
}

// Resolve resolves key and type-asserts the result.
//
//	// Instead of: v, err := c.Resolve("db"); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
func Resolve[T any](r Resolvable, key string) (T, error) {
	var zero T
	instance, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] resolved to %T, want %T", ErrTypeMismatch, key, instance, zero)
	}
	return typed, nil
}

// Make resolves the capability identified by T itself.
//
//	logger, err := container.Make[Logger](r)
func Make[T any](r Resolvable) (T, error) {
	return Resolve[T](r, Key[T]())
}

// MustResolve is like Resolve but panics on failure. Meant for
// composition roots and tests.
func MustResolve[T any](r Resolvable, key string) T {
	v, err := Resolve[T](r, key)
	if err != nil {
		panic(err)
	}
	return v
}

// MustMake is like Make but panics on failure.
func MustMake[T any](r Resolvable) T {
	return MustResolve[T](r, Key[T]())
}

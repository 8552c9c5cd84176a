package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnregisteredCapability     = errors.New("container: capability not registered")
	ErrNoActiveScope              = errors.New("container: no active scope")
	ErrUnknownImplementationKind  = errors.New("container: implementation is neither a factory nor a constructible type")
	ErrMissingConstructorArgument = errors.New("container: constructor argument cannot be satisfied")
	ErrCyclicDependency           = errors.New("container: cyclic dependency")
	ErrTypeMismatch               = errors.New("container: resolved instance has unexpected type")
	ErrScopedInSingleton          = errors.New("container: singleton cannot depend on a scoped capability")

	// ErrScopeNotInnermost is returned when a ScopeHandle is closed while a
	// frame entered after it is still active.
	ErrScopeNotInnermost = errors.New("container: scope is not the innermost frame")
)

// ResolutionError reports which capability failed and the chain of
// capabilities that led to it.
type ResolutionError struct {
	Key  string
	Path []string
	Err  error
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "resolve [%s]", e.Key)
	if len(e.Path) > 1 {
		fmt.Fprintf(&b, " (via %s)", strings.Join(e.Path, " -> "))
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// newResolutionError wraps err unless it already carries a ResolutionError,
// so the innermost failing capability is what callers see.
func newResolutionError(key string, path []string, err error) error {
	var re *ResolutionError
	if errors.As(err, &re) {
		return err
	}
	return &ResolutionError{
		Key:  key,
		Path: append([]string(nil), path...),
		Err:  err,
	}
}

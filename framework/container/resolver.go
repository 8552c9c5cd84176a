package container

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Resolver turns capability identifiers into ready instances. It shares
// the registry and singleton cache of its Container but owns its scope
// stack, so each request or unit of work should use its own Resolver.
type Resolver struct {
	c      *Container
	scopes *ScopeStack
}

func newResolver(c *Container) *Resolver {
	return &Resolver{c: c, scopes: NewScopeStack()}
}

// Container returns the container this resolver belongs to.
func (r *Resolver) Container() *Container { return r.c }

// ── Resolution ───────────────────────────────────────────────────────────────

// Resolve returns an instance for key, honouring the recipe's lifetime.
//
//	svc, err := r.Resolve(container.Key[AppService]())
func (r *Resolver) Resolve(key string) (any, error) {
	return r.resolve(key, nil, false)
}

// resolve builds key at the end of path. inSingleton is set while building
// a singleton's dependencies, which must not come from a scope frame that
// dies before the singleton does.
func (r *Resolver) resolve(key string, path []string, inSingleton bool) (any, error) {
	start := time.Now()
	key = r.c.canonical(key)

	if r.c.detectCycles && slices.Contains(path, key) {
		return nil, r.fail(key, append(slices.Clone(path), key), ErrCyclicDependency)
	}
	path = append(path[:len(path):len(path)], key)

	recipe, err := r.lookup(key)
	if err != nil {
		return nil, r.fail(key, path, err)
	}
	if inSingleton && recipe.lifetime == Scoped {
		return nil, r.fail(key, path, ErrScopedInSingleton)
	}
	inSingleton = inSingleton || recipe.lifetime == Singleton

	var (
		inst   any
		cached bool
	)
	switch recipe.lifetime {
	case Singleton:
		inst, cached, err = r.c.singletons.GetOrCreate(key, func() (any, error) {
			return r.build(recipe, path, inSingleton)
		})
	case Scoped:
		inst, cached, err = r.resolveScoped(recipe, path)
	default:
		inst, err = r.build(recipe, path, inSingleton)
	}
	if err != nil {
		return nil, r.fail(key, path, err)
	}

	r.c.observer.Resolved(key, recipe.lifetime, cached, time.Since(start))
	if !cached {
		r.c.fireAfterResolving(key, inst)
	}
	return inst, nil
}

// lookup consults the registry, loading a deferred provider on a miss.
func (r *Resolver) lookup(key string) (*Recipe, error) {
	recipe, err := r.c.registry.Lookup(key)
	if err == nil {
		return recipe, nil
	}
	loaded, lerr := r.c.loadDeferred(key)
	if lerr != nil {
		return nil, lerr
	}
	if !loaded {
		return nil, err
	}
	return r.c.registry.Lookup(key)
}

func (r *Resolver) resolveScoped(recipe *Recipe, path []string) (any, bool, error) {
	frame, err := r.scopes.Current()
	if err != nil {
		return nil, false, err
	}
	if v, ok := frame.get(recipe.key); ok {
		return v, true, nil
	}
	v, err := r.build(recipe, path, false)
	if err != nil {
		return nil, false, err
	}
	frame.put(recipe.key, v)
	return v, false, nil
}

func (r *Resolver) fail(key string, path []string, err error) error {
	err = newResolutionError(key, path, err)
	if len(path) <= 1 {
		r.c.log.Debug("resolution failed", zap.String("key", key), zap.Error(err))
		r.c.observer.Failed(key, err)
	}
	return err
}

// ── Instantiation ────────────────────────────────────────────────────────────

func (r *Resolver) build(recipe *Recipe, path []string, inSingleton bool) (any, error) {
	impl := recipe.impl
	r.c.log.Debug("building instance",
		zap.String("key", recipe.key),
		zap.Stringer("lifetime", recipe.lifetime),
		zap.Stringer("kind", impl.kind),
	)

	switch impl.kind {
	case kindFactory:
		if impl.factory != nil {
			return impl.factory(maps.Clone(recipe.params))
		}
		if impl.takesParams {
			return call(impl.fn, []reflect.Value{reflect.ValueOf(maps.Clone(recipe.params))})
		}
		return call(impl.fn, nil)

	case kindConstructor:
		args := make([]reflect.Value, len(impl.params))
		for i, p := range impl.params {
			v, ok, err := r.supply(recipe, p, path, inSingleton)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("%w: parameter %d %q of type %s",
					ErrMissingConstructorArgument, i, p.name, p.typ)
			}
			args[i] = v
		}
		return call(impl.fn, args)

	case kindStruct:
		ptr := reflect.New(impl.typ)
		for _, p := range impl.params {
			v, ok, err := r.supply(recipe, p, path, inSingleton)
			if err != nil {
				return nil, err
			}
			if ok {
				ptr.Elem().FieldByIndex(p.field).Set(v)
			}
		}
		if impl.pointer {
			return ptr.Interface(), nil
		}
		return ptr.Elem().Interface(), nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownImplementationKind, impl.raw)
}

// supply fills one parameter: a fixed param by name first, then the
// registered capability for its declared type. ok is false when neither
// applies.
func (r *Resolver) supply(recipe *Recipe, p param, path []string, inSingleton bool) (v reflect.Value, ok bool, err error) {
	if p.name != "" {
		if fixed, found := recipe.params[p.name]; found {
			return assignTo(fixed, p)
		}
	}
	dep := KeyOf(p.typ)
	if !r.c.Bound(dep) {
		return reflect.Value{}, false, nil
	}
	inst, err := r.resolve(dep, path, inSingleton)
	if err != nil {
		return reflect.Value{}, false, err
	}
	return assignTo(inst, p)
}

func assignTo(v any, p param) (reflect.Value, bool, error) {
	if v == nil {
		return reflect.Zero(p.typ), true, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(p.typ) {
		return reflect.Value{}, false, fmt.Errorf("%w: parameter %q wants %s, got %T",
			ErrTypeMismatch, p.name, p.typ, v)
	}
	return rv, true, nil
}

// Tagged resolves every key registered under tag, in tagging order.
func (r *Resolver) Tagged(tag string) ([]any, error) {
	keys := r.c.taggedKeys(tag)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		v, err := r.Resolve(k)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ── Scopes ───────────────────────────────────────────────────────────────────

// ScopeHandle is returned by Enter. Close pops the frame; calling it again
// after a successful close is a no-op.
type ScopeHandle struct {
	r      *Resolver
	frame  *Scope
	mu     sync.Mutex
	closed bool
}

// Scope returns the frame this handle owns.
func (h *ScopeHandle) Scope() *Scope { return h.frame }

// Close pops the frame. It fails while a frame entered later is still open.
func (h *ScopeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	cur, err := h.r.scopes.Current()
	if err != nil {
		return err
	}
	if cur != h.frame {
		return fmt.Errorf("%w: %s", ErrScopeNotInnermost, h.frame.id)
	}
	if err := h.r.Exit(); err != nil {
		return err
	}
	h.closed = true
	return nil
}

// unwind pops the handle's frame together with any frames still open above it.
func (h *ScopeHandle) unwind() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, frame := range h.r.scopes.unwindTo(h.frame) {
		h.r.exited(frame)
	}
	h.closed = true
}

// Enter pushes a new scope frame.
//
//	h := r.Enter()
//	defer h.Close()
func (r *Resolver) Enter() *ScopeHandle {
	frame := r.scopes.Enter()
	r.c.log.Debug("scope entered", zap.String("scope", frame.id), zap.Int("depth", frame.depth))
	r.c.observer.ScopeEntered(frame.depth)
	return &ScopeHandle{r: r, frame: frame}
}

// Exit pops the innermost frame, discarding its Scoped instances.
func (r *Resolver) Exit() error {
	frame, err := r.scopes.Current()
	if err != nil {
		return err
	}
	if err := r.scopes.Exit(); err != nil {
		return err
	}
	r.exited(frame)
	return nil
}

func (r *Resolver) exited(frame *Scope) {
	r.c.log.Debug("scope exited", zap.String("scope", frame.id), zap.Int("instances", frame.Len()))
	r.c.observer.ScopeExited(frame.depth)
}

// Scope runs fn inside a fresh frame. The frame is popped on every exit
// path, including a panic in fn. Frames fn entered and left open are
// popped with it and reported as ErrScopeNotInnermost.
//
//	err := r.Scope(func(r *container.Resolver) error {
//	    db, err := container.Make[Database](r)
//	    ...
//	})
func (r *Resolver) Scope(fn func(r *Resolver) error) (err error) {
	h := r.Enter()
	defer func() {
		cerr := h.Close()
		if errors.Is(cerr, ErrScopeNotInnermost) {
			h.unwind()
		}
		if err == nil {
			err = cerr
		}
	}()
	return fn(r)
}

// CurrentScope returns the innermost frame or ErrNoActiveScope.
func (r *Resolver) CurrentScope() (*Scope, error) { return r.scopes.Current() }

// Depth is the number of active frames.
func (r *Resolver) Depth() int { return r.scopes.Depth() }

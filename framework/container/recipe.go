package container

import (
	"fmt"
	"maps"
	"reflect"
)

// Params are caller-supplied fixed arguments matched by parameter name.
type Params map[string]any

// Factory is an opaque builder. It receives the recipe's fixed params and
// its dependencies are never introspected. Typed forms such as
// func(Params) *T are treated the same way.
//
//	c.Bind(container.Key[Logger](), container.Factory(func(p container.Params) (any, error) {
//	    return NewSpecialLogger(), nil
//	}), nil)
type Factory func(p Params) (any, error)

// Constructor pairs a constructor func with the names of its parameters,
// in declaration order. Go does not keep parameter names at runtime, so
// names are how fixed params find their slot.
type Constructor struct {
	Func  any
	Names []string
}

// Ctor describes a constructor whose parameters are resolved by declared
// type, or by name from the recipe's fixed params.
//
//	c.Scoped(container.Key[Database](), container.Ctor(NewPostgres, "connection_string"),
//	    container.Params{"connection_string": "postgres://localhost/app"})
func Ctor(fn any, names ...string) Constructor {
	return Constructor{Func: fn, Names: names}
}

// Struct describes a struct implementation. Exported fields are treated
// as optional parameters named by their `inject:"name"` tag or field name;
// `inject:"-"` skips a field. Pass a pointer type to get *T instances.
func Struct[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// ── implementation variants ──────────────────────────────────────────────────

type implKind int

const (
	kindUnknown implKind = iota
	kindFactory
	kindConstructor
	kindStruct
)

func (k implKind) String() string {
	switch k {
	case kindFactory:
		return "factory"
	case kindConstructor:
		return "constructor"
	case kindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// param is one injectable slot: a constructor argument or a struct field.
type param struct {
	name  string
	typ   reflect.Type
	field []int // struct field index, nil for constructor arguments
}

// implementation is the tagged variant built once at registration.
type implementation struct {
	kind        implKind
	raw         any
	factory     Factory       // kindFactory with a Factory signature
	fn          reflect.Value // kindFactory (func() T or func(Params) T) and kindConstructor
	takesParams bool          // kindFactory: fn receives the fixed params
	params      []param
	typ         reflect.Type // kindStruct: the struct type
	pointer     bool         // kindStruct: produce *T
}

var (
	errorType   = reflect.TypeFor[error]()
	paramsType  = reflect.TypeFor[Params]()
	factoryType = reflect.TypeFor[Factory]()
)

func classify(impl any) implementation {
	switch v := impl.(type) {
	case nil:
		return implementation{kind: kindUnknown}
	case Factory:
		if v == nil {
			return implementation{kind: kindUnknown, raw: impl}
		}
		return implementation{kind: kindFactory, raw: impl, factory: v}
	case func(Params) (any, error):
		return implementation{kind: kindFactory, raw: impl, factory: Factory(v)}
	case Constructor:
		return classifyFunc(v.Func, v.Names)
	case reflect.Type:
		return classifyStruct(v)
	}
	if reflect.TypeOf(impl).Kind() == reflect.Func {
		return classifyFunc(impl, nil)
	}
	return implementation{kind: kindUnknown, raw: impl}
}

func classifyFunc(fn any, names []string) implementation {
	unknown := implementation{kind: kindUnknown, raw: fn}
	if fn == nil {
		return unknown
	}
	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func || v.IsNil() || t.IsVariadic() || !validOut(t) {
		return unknown
	}
	if t.ConvertibleTo(factoryType) && t.In(0) == paramsType {
		return implementation{kind: kindFactory, raw: fn, factory: v.Convert(factoryType).Interface().(Factory)}
	}
	if t.NumIn() == 0 {
		return implementation{kind: kindFactory, raw: fn, fn: v}
	}
	if t.NumIn() == 1 && t.In(0) == paramsType {
		return implementation{kind: kindFactory, raw: fn, fn: v, takesParams: true}
	}
	params := make([]param, t.NumIn())
	for i := range params {
		params[i] = param{typ: t.In(i)}
		if i < len(names) {
			params[i].name = names[i]
		}
	}
	return implementation{kind: kindConstructor, raw: fn, fn: v, params: params}
}

func classifyStruct(t reflect.Type) implementation {
	if t == nil {
		return implementation{kind: kindUnknown}
	}
	impl := implementation{kind: kindStruct, raw: t, typ: t}
	if t.Kind() == reflect.Pointer {
		impl.typ = t.Elem()
		impl.pointer = true
	}
	if impl.typ.Kind() != reflect.Struct {
		return implementation{kind: kindUnknown, raw: t}
	}
	for _, f := range reflect.VisibleFields(impl.typ) {
		if !f.IsExported() || len(f.Index) > 1 {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("inject"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		impl.params = append(impl.params, param{name: name, typ: f.Type, field: f.Index})
	}
	return impl
}

// validOut accepts funcs returning T or (T, error).
func validOut(t reflect.Type) bool {
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	}
	return false
}

// call invokes fn and splits its (T[, error]) results.
func call(fn reflect.Value, args []reflect.Value) (any, error) {
	out := fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// ── Recipe ───────────────────────────────────────────────────────────────────

// Recipe describes how to build one capability. It is never mutated after
// registration; re-registering a key replaces the whole recipe.
type Recipe struct {
	key      string
	lifetime Lifetime
	params   Params
	impl     implementation
}

// NewRecipe classifies impl and copies params. It does not check that impl
// is constructible; that surfaces at resolution time.
func NewRecipe(key string, impl any, lifetime Lifetime, params Params) *Recipe {
	return &Recipe{
		key:      key,
		lifetime: lifetime,
		params:   maps.Clone(params),
		impl:     classify(impl),
	}
}

func (r *Recipe) Key() string        { return r.key }
func (r *Recipe) Lifetime() Lifetime { return r.lifetime }

// Kind reports the implementation variant: factory, constructor, struct or unknown.
func (r *Recipe) Kind() string { return r.impl.kind.String() }

// Param returns a fixed param by name.
func (r *Recipe) Param(name string) (any, bool) {
	v, ok := r.params[name]
	return v, ok
}

// Dependencies lists the capability keys the recipe may resolve while
// building, in parameter order. Slots filled by fixed params are omitted.
func (r *Recipe) Dependencies() []string {
	deps := make([]string, 0, len(r.impl.params))
	for _, p := range r.impl.params {
		if _, fixed := r.params[p.name]; fixed && p.name != "" {
			continue
		}
		deps = append(deps, KeyOf(p.typ))
	}
	return deps
}

func (r *Recipe) String() string {
	return fmt.Sprintf("%s[%s %s]", r.key, r.lifetime, r.impl.kind)
}

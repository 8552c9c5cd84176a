package container

import "reflect"

// KeyOf returns the capability identifier for a Go type.
//
// Named types map to "pkgpath.Name", pointers are prefixed with "*",
// and unnamed types fall back to their reflect string.
func KeyOf(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer {
		return "*" + KeyOf(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Key returns the capability identifier for T.
//
//	c.Singleton(container.Key[Logger](), NewConsoleLogger, nil)
func Key[T any]() string {
	return KeyOf(reflect.TypeFor[T]())
}

// TypeKey returns the identifier for v, useful as a stable abstract key
// when working with interfaces.
//
//	key := container.TypeKey((*UserRepository)(nil))  // "main.UserRepository"
//	c.Singleton(key, NewRepo, nil)
//
// Any value other than a nil interface pointer yields the key of its
// dynamic type.
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		t = t.Elem()
	}
	return KeyOf(t)
}

package container

import "context"

type resolverContextKey struct{}

// WithResolver attaches r to ctx. The HTTP scope middleware uses it to hand
// each request its own resolver.
func WithResolver(ctx context.Context, r *Resolver) context.Context {
	return context.WithValue(ctx, resolverContextKey{}, r)
}

// ResolverFrom extracts the resolver stored by WithResolver.
func ResolverFrom(ctx context.Context) (*Resolver, bool) {
	r, ok := ctx.Value(resolverContextKey{}).(*Resolver)
	return r, ok
}

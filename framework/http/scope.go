package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/container"
)

// ErrNoRequestResolver is returned when a handler asks for the request
// resolver but ScopeMiddleware is not installed.
var ErrNoRequestResolver = errors.New("http: no resolver on request context")

// ScopeMiddleware gives every request its own resolver with one open
// scope frame. Scoped services are shared within the request and dropped
// when it completes; singletons are shared with the whole container.
//
//	router.Middleware(gohttp.ScopeMiddleware(app.Container, log))
func ScopeMiddleware(c *container.Container, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := c.NewResolver()
			h := res.Enter()
			defer func() {
				if err := h.Close(); err != nil {
					log.Error("closing request scope", zap.Error(err))
				}
			}()
			next.ServeHTTP(w, r.WithContext(container.WithResolver(r.Context(), res)))
		})
	}
}

// RequestResolver returns the resolver installed by ScopeMiddleware.
func RequestResolver(r *http.Request) (*container.Resolver, error) {
	res, ok := container.ResolverFrom(r.Context())
	if !ok {
		return nil, ErrNoRequestResolver
	}
	return res, nil
}

// Make resolves T on the request's resolver.
//
//	svc, err := gohttp.Make[services.AppService](r)
func Make[T any](r *http.Request) (T, error) {
	res, err := RequestResolver(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return container.Make[T](res)
}

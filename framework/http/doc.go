// Package http provides JSON response helpers and the per-request scope
// middleware.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(map[string]any{"id": 1})          // 200 {"data": {...}}
//	res.Error(http.StatusNotFound, "Not found")   // 404 {"message": "..."}
//
// # Request scopes
//
// ScopeMiddleware gives each request its own container.Resolver with one
// open scope frame. Handlers resolve through the request:
//
//	router.Middleware(gohttp.ScopeMiddleware(app.Container, log))
//
//	router.Get("/run", func(w http.ResponseWriter, r *http.Request) {
//	    svc, err := gohttp.Make[services.AppService](r)
//	    ...
//	})
//
// Scoped services are shared for the rest of that request and dropped when
// it completes. Concurrent requests never share a frame.
package http

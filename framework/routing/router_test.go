package routing_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/km-arc/go-injector/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func do(t *testing.T, router http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// ── HTTP verbs ────────────────────────────────────────────────────────────────

func TestRouter_Verbs(t *testing.T) {
	r := routing.New()
	r.Get("/hello", okHandler)
	r.Post("/users", okHandler)
	r.Delete("/users/{id}", okHandler)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/hello"},
		{http.MethodPost, "/users"},
		{http.MethodDelete, "/users/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if rr := do(t, r, tt.method, tt.path); rr.Code != http.StatusOK {
				t.Errorf("got %d want 200", rr.Code)
			}
		})
	}
}

func TestRouter_Handle(t *testing.T) {
	r := routing.New()
	r.Handle("/metrics", http.HandlerFunc(okHandler))

	if rr := do(t, r, http.MethodGet, "/metrics"); rr.Code != http.StatusOK {
		t.Errorf("GET /metrics: got %d want 200", rr.Code)
	}
}

// ── 404 for unregistered routes ──────────────────────────────────────────────

func TestRouter_NotFound(t *testing.T) {
	r := routing.New()
	rr := do(t, r, http.MethodGet, "/not-registered")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

// ── Route params ─────────────────────────────────────────────────────────────

func TestRouter_Param(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := routing.Param(req, "id")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(id))
	})

	rr := do(t, r, http.MethodGet, "/users/42")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d want 200", rr.Code)
	}
	if rr.Body.String() != "42" {
		t.Errorf("got body %q want %q", rr.Body.String(), "42")
	}
}

// ── Prefix / Group ───────────────────────────────────────────────────────────

func TestRouter_Prefix(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/users", okHandler)
	})

	rr := do(t, r, http.MethodGet, "/api/v1/users")
	if rr.Code != http.StatusOK {
		t.Errorf("GET /api/v1/users: got %d want 200", rr.Code)
	}

	// Root must 404
	rr2 := do(t, r, http.MethodGet, "/users")
	if rr2.Code != http.StatusNotFound {
		t.Errorf("GET /users: expected 404, got %d", rr2.Code)
	}
}

func TestRouter_Group_Middleware(t *testing.T) {
	called := false
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			next.ServeHTTP(w, r)
		})
	}

	r := routing.New()
	r.Group(func(g *routing.Router) {
		g.Middleware(mw)
		g.Get("/protected", okHandler)
	})

	do(t, r, http.MethodGet, "/protected")
	if !called {
		t.Error("expected middleware to be called")
	}
}

// ── Request logging ──────────────────────────────────────────────────────────

func TestRequestLogger_LogsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := routing.New()
	r.Middleware(routing.RequestLogger(zap.New(core)))
	r.Get("/ping", okHandler)

	do(t, r, http.MethodGet, "/ping")

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/ping" {
		t.Errorf("path: got %v want /ping", fields["path"])
	}
	if fields["status"] != int64(http.StatusOK) {
		t.Errorf("status: got %v want 200", fields["status"])
	}
}

// ── Handler() returns http.Handler ───────────────────────────────────────────

func TestRouter_HandlerInterface(t *testing.T) {
	r := routing.New()
	r.Get("/ping", okHandler)
	var _ http.Handler = r.Handler()
}

package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gohttp "github.com/km-arc/go-injector/framework/http"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newResponse(t *testing.T) (*gohttp.Response, *httptest.ResponseRecorder) {
	t.Helper()
	rr := httptest.NewRecorder()
	return gohttp.NewResponse(rr), rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&m); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	return m
}

// ── JSON ──────────────────────────────────────────────────────────────────────

func TestResponse_Success(t *testing.T) {
	res, rr := newResponse(t)
	res.Success(map[string]any{"id": float64(1)})

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q want application/json", ct)
	}
	m := decodeJSON(t, rr)
	data, ok := m["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data envelope, got %T", m["data"])
	}
	if data["id"] != float64(1) {
		t.Errorf("data.id: got %v want 1", data["id"])
	}
}

// ── Error helpers ─────────────────────────────────────────────────────────────

func TestResponse_Error(t *testing.T) {
	res, rr := newResponse(t)
	res.Error(http.StatusBadRequest, "bad input")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d want 400", rr.Code)
	}
	m := decodeJSON(t, rr)
	if m["message"] != "bad input" {
		t.Errorf("message: got %v want 'bad input'", m["message"])
	}
}

func TestResponse_ServerError(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", nil, "Server Error."},
		{"custom", []string{"db down"}, "db down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, rr := newResponse(t)
			res.ServerError(tt.args...)

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d want 500", rr.Code)
			}
			if m := decodeJSON(t, rr); m["message"] != tt.want {
				t.Errorf("message: got %v want %q", m["message"], tt.want)
			}
		})
	}
}

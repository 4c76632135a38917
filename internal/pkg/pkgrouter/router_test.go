package pkgrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/healthmon/internal/pkg/pkgerror"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkguid"
)

type bareResponse struct {
	Message string `json:"message"`
}

func (bareResponse) Enveloped() bool { return false }

type wrappedResponse struct {
	Value int `json:"value"`
}

func (wrappedResponse) Message() string { return "ok" }

func (wrappedResponse) Meta() map[string]any { return map[string]any{"total": 1} }

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterBareResponse(t *testing.T) {
	r := NewRouter(pkguid.StringFunc(func() string { return "cid" }))
	r.GET("/api/data", func(context.Context, *http.Request) (any, error) {
		return bareResponse{Message: "hello"}, nil
	})

	rec := serve(t, r, http.MethodGet, "/api/data")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"message":"hello"}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestRouterGETAnswersHead(t *testing.T) {
	r := NewRouter(nil)
	calls := 0
	r.GET("/api/data", func(context.Context, *http.Request) (any, error) {
		calls++
		return bareResponse{Message: "hello"}, nil
	})

	rec := serve(t, r, http.MethodHead, "/api/data")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for HEAD, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, got %d", calls)
	}
}

func TestRouterEnvelope(t *testing.T) {
	r := NewRouter(nil)
	r.GET("/wrapped", func(context.Context, *http.Request) (any, error) {
		return wrappedResponse{Value: 7}, nil
	})

	rec := serve(t, r, http.MethodGet, "/wrapped")

	var body struct {
		Message string          `json:"message"`
		Data    wrappedResponse `json:"data"`
		Meta    map[string]any  `json:"meta"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "ok" || body.Data.Value != 7 || body.Meta["total"] != float64(1) {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRouterErrorCodec(t *testing.T) {
	r := NewRouter(nil)
	r.GET("/invalid", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewValidation("Invalid heart_rate", pkgerror.CodeInvalidFormat, map[string]string{"heart_rate": "must be at least 1"})
	})
	r.GET("/boom", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewServer(errors.New("disk full"))
	})

	rec := serve(t, r, http.MethodGet, "/invalid")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Invalid heart_rate" || resp.Error["heart_rate"] != "must be at least 1" {
		t.Fatalf("unexpected error body: %+v", resp)
	}

	rec = serve(t, r, http.MethodGet, "/boom")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "disk full") {
		t.Fatalf("cause must not leak without debug: %s", rec.Body.String())
	}
}

func TestRouterDebugDetail(t *testing.T) {
	r := NewRouter(nil, WithDebug(true))
	r.GET("/boom", func(context.Context, *http.Request) (any, error) {
		return nil, pkgerror.NewServer(errors.New("disk full"))
	})
	r.GET("/plain", func(context.Context, *http.Request) (any, error) {
		return nil, errors.New("unexpected")
	})

	if !r.Debug() {
		t.Fatalf("expected debug router")
	}

	rec := serve(t, r, http.MethodGet, "/boom")
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error["detail"] != "disk full" {
		t.Fatalf("expected debug detail, got %+v", resp)
	}

	rec = serve(t, r, http.MethodGet, "/plain")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "unexpected") {
		t.Fatalf("unexpected plain error response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	r := NewRouter(nil)
	r.GET("/only-get", func(context.Context, *http.Request) (any, error) {
		return bareResponse{}, nil
	})

	if rec := serve(t, r, http.MethodGet, "/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := serve(t, r, http.MethodPost, "/only-get"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	r.NotFound(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	if rec := serve(t, r, http.MethodGet, "/missing"); rec.Code != http.StatusTeapot {
		t.Fatalf("expected custom not found handler, got %d", rec.Code)
	}
}

func TestRouterHealthAndRecover(t *testing.T) {
	r := NewRouter(nil)
	r.Handle(http.MethodGet, "/panic", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	if rec := serve(t, r, http.MethodGet, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}
	if rec := serve(t, r, http.MethodGet, "/panic"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected recovered 500, got %d", rec.Code)
	}
}

func TestMatchedRoutePath(t *testing.T) {
	var got string
	h := middlewareRoute("/api/add_data/:heart_rate")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = matchedRoutePath(r)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/add_data/72", nil))
	if got != "/api/add_data/:heart_rate" {
		t.Fatalf("expected route pattern, got %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/static/js/main.js", nil)
	if got := matchedRoutePath(req); got != "/static/js/main.js" {
		t.Fatalf("expected path fallback, got %q", got)
	}
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = "<!doctype html><title>Health Monitor</title><div id=\"root\"></div>"

type fixture struct {
	staticDir string
	dataDir   string
}

func newFixture(t *testing.T, withIndex bool) fixture {
	t.Helper()
	f := fixture{staticDir: t.TempDir(), dataDir: t.TempDir()}
	if withIndex {
		require.NoError(t, os.WriteFile(filepath.Join(f.staticDir, "index.html"), []byte(indexHTML), 0o600))
	}
	return f
}

func newTestApp(t *testing.T, f fixture, overrides map[string]any) *App {
	t.Helper()

	cfg := fmt.Sprintf(`server:
  address:
    http: 127.0.0.1:0
  debug: false
modules:
  frontend:
    static_dir: %q
  heartrate:
    store:
      driver: file
      path: %q
`, f.staticDir, filepath.Join(f.dataDir, "data.json"))

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	a, err := New(Options{ConfigPath: path, Overrides: overrides})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.Stop(ctx)
	})
	return a
}

func get(h http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPIDataAlwaysTheSame(t *testing.T) {
	a := newTestApp(t, newFixture(t, true), nil)

	for i := 0; i < 3; i++ {
		rec := get(a.Handler(), "/api/data", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message": "Hello from Flask!"}`, rec.Body.String())
	}
}

func TestAPIDataAllowsAnyOrigin(t *testing.T) {
	a := newTestApp(t, newFixture(t, true), nil)

	for _, origin := range []string{"http://35.160.204.3:3000", "https://example.org"} {
		rec := get(a.Handler(), "/api/data", map[string]string{"Origin": origin})
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/data", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIndexServedAndMissing(t *testing.T) {
	withIndex := newTestApp(t, newFixture(t, true), nil)
	rec := get(withIndex.Handler(), "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Equal(t, indexHTML, rec.Body.String())

	withoutIndex := newTestApp(t, newFixture(t, false), nil)
	rec = get(withoutIndex.Handler(), "/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeartRateRoundTripThroughFileStore(t *testing.T) {
	f := newFixture(t, true)
	a := newTestApp(t, f, nil)

	rec := get(a.Handler(), "/api/add_data/155", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = get(a.Handler(), "/api/get_data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var series struct {
		Timestamps []string `json:"timestamps"`
		HeartRates []int    `json:"heart_rates"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&series))
	assert.Equal(t, []int{155}, series.HeartRates)
	assert.Len(t, series.Timestamps, 1)

	raw, err := os.ReadFile(filepath.Join(f.dataDir, "data.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"heart_rates":[155]`)

	rec = get(a.Handler(), "/api/add_data/fast", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModulesCanBeDisabled(t *testing.T) {
	a := newTestApp(t, newFixture(t, true), map[string]any{"modules.greeting.enabled": false})

	assert.Equal(t, http.StatusNotFound, get(a.Handler(), "/api/data", nil).Code)
	assert.Equal(t, http.StatusOK, get(a.Handler(), "/health", nil).Code)
}

func TestNewFailsOnBadStoreDriver(t *testing.T) {
	f := newFixture(t, true)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules:\n  heartrate:\n    store:\n      driver: redis\n"), 0o600))

	_, err := New(Options{ConfigPath: path, Overrides: map[string]any{"modules.frontend.static_dir": f.staticDir}})
	assert.ErrorContains(t, err, "heartrate")
}

func TestNewRequiresExplicitConfigFile(t *testing.T) {
	_, err := New(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestServeOnListener(t *testing.T) {
	a := newTestApp(t, newFixture(t, true), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = a.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/api/data")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Hello from Flask!"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	a := newTestApp(t, newFixture(t, true), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() {
		served <- a.Serve(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/data")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-served:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}

	client := &http.Client{Timeout: time.Second, Transport: &http.Transport{DisableKeepAlives: true}}
	_, err = client.Get("http://" + addr + "/api/data")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	defaults := defaultConfig()

	assert.Equal(t, "0.0.0.0:5000", defaults["server.address.http"])
	assert.Equal(t, true, defaults["server.debug"])
	assert.Equal(t, "../frontend/build", defaults["modules.frontend.static_dir"])
	assert.Equal(t, "Hello from Flask!", defaults["modules.greeting.message"])
}

func TestHealthReportsBackgroundTasks(t *testing.T) {
	f := newFixture(t, true)
	a := newTestApp(t, f, nil)
	rec := get(a.Handler(), "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"server is running well","data":{"background_tasks":{}}}`, rec.Body.String())

	badgerDir := filepath.Join(t.TempDir(), "readings")
	b := newTestApp(t, f, map[string]any{
		"modules.heartrate.store.driver": "badger",
		"modules.heartrate.store.path":   badgerDir,
	})
	rec = get(b.Handler(), "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"server is running well","data":{"background_tasks":{"badger-value-log-gc":1}}}`, rec.Body.String())
}

func TestNewRejectsInvertedThresholds(t *testing.T) {
	f := newFixture(t, true)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules:\n  heartrate:\n    threshold:\n      low: 150\n      high: 100\n"), 0o600))

	_, err := New(Options{ConfigPath: path, Overrides: map[string]any{
		"modules.frontend.static_dir":    f.staticDir,
		"modules.heartrate.store.driver": "memory",
	}})
	assert.ErrorContains(t, err, "invalid heart rate thresholds")
}

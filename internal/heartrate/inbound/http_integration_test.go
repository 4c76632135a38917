package inbound

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
	"github.com/shandysiswandi/healthmon/internal/heartrate/event"
	"github.com/shandysiswandi/healthmon/internal/heartrate/store"
	"github.com/shandysiswandi/healthmon/internal/heartrate/usecase"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkguid"
)

type seqID struct {
	next int64
}

func (s *seqID) Generate() int64 {
	s.next++
	return s.next
}

func newTestRouter(t *testing.T) (*pkgrouter.Router, *event.Bus) {
	t.Helper()

	bus := event.NewBus(10)
	uc := usecase.New(usecase.Dependency{
		Store:      store.NewInMemoryStore(),
		Events:     bus,
		ReadingID:  &seqID{},
		EventID:    pkguid.NewUUID(),
		Thresholds: entity.Thresholds{Low: 60, High: 140},
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc)

	return router, bus
}

func do(t *testing.T, h http.Handler, method, target string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, target, err)
		}
	}
	return rec.Code
}

func TestAddThenQuery(t *testing.T) {
	router, bus := newTestRouter(t)

	var added AddResponse
	if code := do(t, router, http.MethodGet, "/api/add_data/72", &added); code != http.StatusOK {
		t.Fatalf("unexpected add status: %d", code)
	}
	if added.HeartRate != 72 {
		t.Fatalf("unexpected add response: %+v", added)
	}
	if _, err := time.ParseInLocation(entity.TimestampLayout, added.Timestamp, time.Local); err != nil {
		t.Fatalf("timestamp %q not in layout: %v", added.Timestamp, err)
	}

	if code := do(t, router, http.MethodPost, "/api/add_data/150", nil); code != http.StatusOK {
		t.Fatalf("unexpected post add status: %d", code)
	}

	var series SeriesResponse
	if code := do(t, router, http.MethodGet, "/api/get_data", &series); code != http.StatusOK {
		t.Fatalf("unexpected get_data status: %d", code)
	}
	if len(series.Timestamps) != 2 || len(series.HeartRates) != 2 {
		t.Fatalf("unexpected series: %+v", series)
	}
	if series.HeartRates[0] != 72 || series.HeartRates[1] != 150 {
		t.Fatalf("unexpected heart rates: %v", series.HeartRates)
	}

	var alerts AlertsResponse
	if code := do(t, router, http.MethodGet, "/api/alerts", &alerts); code != http.StatusOK {
		t.Fatalf("unexpected alerts status: %d", code)
	}
	if alerts.Count != 1 || alerts.Low != 60 || alerts.High != 140 || alerts.Readings[0].Level != "HIGH" {
		t.Fatalf("unexpected alerts: %+v", alerts)
	}

	select {
	case evt := <-bus.Subscribe():
		if evt.Reading.HeartRate != 150 || evt.EventID == "" {
			t.Fatalf("unexpected event: %+v", evt)
		}
	default:
		t.Fatal("expected abnormal reading event on bus")
	}
}

func TestGetDataEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/get_data", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["data"]; ok {
		t.Fatalf("expected bare payload, got envelope: %v", body)
	}
	if ts, ok := body["timestamps"].([]any); !ok || len(ts) != 0 {
		t.Fatalf("expected empty timestamps array, got %v", body["timestamps"])
	}
}

func TestAddInvalidHeartRate(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, target := range []string{"/api/add_data/abc", "/api/add_data/0", "/api/add_data/999"} {
		var body struct {
			Message string `json:"message"`
		}
		if code := do(t, router, http.MethodGet, target, &body); code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, code)
		}
		if body.Message != "Invalid heart_rate" {
			t.Fatalf("%s: unexpected message %q", target, body.Message)
		}
	}
}

func TestAddDataRouteCarriesCorrelationID(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/add_data/80", nil)
	req.Header.Set(pkgrouter.HeaderRequestID, "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(pkgrouter.HeaderCorrelationID); got != "req-42" {
		t.Fatalf("expected correlation id echoed, got %q", got)
	}
}

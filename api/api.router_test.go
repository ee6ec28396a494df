package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/connectedsmarties/hub/internal/config"
	"github.com/connectedsmarties/hub/internal/database"
	"github.com/connectedsmarties/hub/internal/hubservice"
	"github.com/connectedsmarties/hub/internal/repository/sqlite"
	"github.com/connectedsmarties/hub/internal/threshold"
)

type fakeFans struct {
	connected bool
	commands  []string
}

func (f *fakeFans) Activate(topic string)   { f.commands = append(f.commands, "START "+topic) }
func (f *fakeFans) Deactivate(topic string) { f.commands = append(f.commands, "STOP "+topic) }
func (f *fakeFans) Connected() bool         { return f.connected }

func newTestRouter(t *testing.T) (*Router, *fakeFans) {
	t.Helper()
	db, err := database.NewSQLiteDB(config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	bounds, err := threshold.NewConfig(10.0, -5.0)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	fans := &fakeFans{connected: true}
	svc := hubservice.New(
		sqlite.NewSensorRepository(db),
		sqlite.NewSensorDataRepository(db),
		nil,
		bounds,
		fans,
		[]string{"Frig1", "Frig2"},
	)
	return NewRouter(svc), fans
}

func TestSensorLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"sensor_type":"temperature probe","location":"Frig1"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sensors", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sensor: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sensors", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list sensors: status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "temperature probe") {
		t.Errorf("listed sensors missing created one: %s", rec.Body.String())
	}

	// No readings yet
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sensors/1/latest?type=temperature", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("latest without data: status %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sensors/1", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete sensor: status %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sensors/1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing sensor: status %d, want 404", rec.Code)
	}
}

func TestThresholdRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/thresholds", strings.NewReader(`{"high":12,"low":-2}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update thresholds: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/thresholds", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get thresholds: status %d", rec.Code)
	}
	got := rec.Body.String()
	if !strings.Contains(got, `"high":12`) || !strings.Contains(got, `"low":-2`) {
		t.Errorf("thresholds = %s", got)
	}
}

func TestThresholdValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for name, body := range map[string]string{
		"inverted bounds": `{"high":-2,"low":12}`,
		"missing low":     `{"high":12}`,
		"not json":        `high=12`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/thresholds", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", name, rec.Code)
		}
	}
}

func TestFanCommandRoutes(t *testing.T) {
	router, fans := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/locations/Frig1/fan/on", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("fan on: status %d, body %s", rec.Code, rec.Body.String())
	}
	if len(fans.commands) != 1 || fans.commands[0] != "START Frig1/fanControl" {
		t.Errorf("commands = %v", fans.commands)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/locations/Freezer9/fan/off", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown location: status %d, want 404", rec.Code)
	}
}

func TestFanCommandWhileDegraded(t *testing.T) {
	router, fans := newTestRouter(t)
	fans.connected = false

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/locations/Frig1/fan/on", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("fan on while degraded: status %d, want 503", rec.Code)
	}
	if len(fans.commands) != 0 {
		t.Errorf("no command expected while degraded, got %v", fans.commands)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/thresholds", nil)
	req.Header.Set("X-Request-ID", "req_abc123")
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req_abc123" {
		t.Errorf("X-Request-ID = %q, want caller's id echoed", got)
	}
}

// Health and metrics handlers are installed after the router is built; until
// then the routes must answer 503 instead of dereferencing a nil handler.
func TestHealthAndMetricsBeforeInstallation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/metrics"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s before handler installed: status %d, want 503", path, rec.Code)
		}
	}
}

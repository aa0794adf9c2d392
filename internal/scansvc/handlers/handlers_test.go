package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/scan-services/internal/scansvc/metrics"
	"github.com/avvvet/scan-services/internal/scansvc/models"
	"github.com/avvvet/scan-services/internal/scansvc/service"
	"github.com/avvvet/scan-services/internal/scansvc/store/memory"
)

type testServer struct {
	router  chi.Router
	store   *memory.Store
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := memory.New()
	m := metrics.New()
	h := NewHandler(Dependencies{
		Services:   service.NewServices(st, st, nil, m),
		Health:     service.NewHealthService(st, st),
		Metrics:    m,
		InstanceID: "scansvc-test",
	})

	r := chi.NewRouter()
	h.SetRoutes(r)
	return &testServer{router: r, store: st, metrics: m}
}

func newDegradedServer() chi.Router {
	h := NewHandler(Dependencies{Health: service.NewHealthService(nil, nil)})
	r := chi.NewRouter()
	h.SetRoutes(r)
	return r
}

// do sends body as JSON when it is not nil and decodes a JSON response.
func do(t *testing.T, r http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "scanner-test/1.0")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec.Code, out
}

func (s *testServer) logs(t *testing.T) []models.ScanLog {
	t.Helper()
	logs, err := s.store.ListScanLogs(context.Background(), models.ScanLogFilter{Limit: 1000})
	require.NoError(t, err)
	return logs
}

func TestEmployeeLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s.router, http.MethodPost, "/api/employees", map[string]any{
		"employee_id": "emp900",
		"name":        "Test",
		"department":  "IT",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "EMP900", body["employee_id"])
	assert.Equal(t, "Employee EMP900 added successfully", body["message"])

	code, body = do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "emp900"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ALLOWED", body["status"])
	assert.Equal(t, "Test", body["employee_name"])
	assert.Equal(t, "IT", body["employee_department"])
	assert.Equal(t, "Access granted for employee EMP900", body["message"])

	code, body = do(t, s.router, http.MethodDelete, "/api/employees/EMP900", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee EMP900 deactivated successfully", body["message"])

	code, body = do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "EMP900"})
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "DENIED", body["status"])
	assert.Equal(t, "Access denied. Employee ID EMP900 is not registered or inactive", body["message"])
	assert.NotContains(t, body, "employee_name")

	logs := s.logs(t)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ScanDenied, logs[0].Status)
	assert.Equal(t, models.ScanSuccess, logs[1].Status)
	require.NotNil(t, logs[0].IPAddress)
	assert.Equal(t, "192.0.2.1", *logs[0].IPAddress)
	require.NotNil(t, logs[0].UserAgent)
	assert.Equal(t, "scanner-test/1.0", *logs[0].UserAgent)
}

func TestScanHandler_MissingEmployeeID(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "no body", body: nil},
		{name: "empty object", body: map[string]any{}},
		{name: "blank id", body: map[string]any{"employee_id": "   "}},
		{name: "not a string", body: map[string]any{"employee_id": 42}},
		{name: "malformed", body: "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			code, body := do(t, s.router, http.MethodPost, "/api/scan", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "employee_id not found in request", body["message"])
			assert.Empty(t, s.logs(t))
		})
	}
}

func TestScanHandler_CountsAttempts(t *testing.T) {
	s := newTestServer(t)

	do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "NOBODY"})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `scansvc_scan_attempts_total{status="DENIED"} 1`)
}

func TestAddEmployeeHandler_Validation(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "employee_id and name are required", body["message"])

	code, _ = do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP1", "name": "One"})
	require.Equal(t, http.StatusCreated, code)

	code, body = do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": " emp1 ", "name": "Again"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Employee ID already exists", body["message"])

	code, body = do(t, s.router, http.MethodPost, "/api/employees", map[string]any{
		"employee_id": strings.Repeat("E", 51),
		"name":        "Too Long",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["message"], "employee_id must be at most 50 characters")

	code, _ = do(t, s.router, http.MethodPatch, "/api/employees/EMP1", map[string]any{"name": strings.Repeat("n", 256)})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestScanHandler_LongIDIsLogged(t *testing.T) {
	s := newTestServer(t)
	id := strings.Repeat("Z", 60)

	code, body := do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": id})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, id, body["employee_id"])

	logs := s.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, id, logs[0].EmployeeID)
}

func TestListEmployeesHandler_ActiveOnly(t *testing.T) {
	s := newTestServer(t)

	do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP1", "name": "Alice"})
	do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP2", "name": "Bob"})
	do(t, s.router, http.MethodDelete, "/api/employees/EMP2", nil)

	code, body := do(t, s.router, http.MethodGet, "/api/employees", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["total"])

	code, body = do(t, s.router, http.MethodGet, "/api/employees?active_only=FALSE", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["total"])
	employees := body["employees"].([]any)
	assert.Equal(t, "Alice", employees[0].(map[string]any)["name"])
}

func TestUpdateStatusHandler(t *testing.T) {
	s := newTestServer(t)
	do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP3", "name": "Carol"})

	code, body := do(t, s.router, http.MethodPut, "/api/employees/emp3", map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee EMP3 deactivated successfully", body["message"])

	// missing is_active means activate
	code, body = do(t, s.router, http.MethodPut, "/api/employees/EMP3", map[string]any{})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee EMP3 activated successfully", body["message"])

	code, body = do(t, s.router, http.MethodPut, "/api/employees/NOPE", map[string]any{"is_active": true})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Employee NOPE not found", body["message"])

	code, _ = do(t, s.router, http.MethodDelete, "/api/employees/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdateFieldsHandler(t *testing.T) {
	s := newTestServer(t)
	do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP4", "name": "Dan"})

	code, _ := do(t, s.router, http.MethodPatch, "/api/employees/EMP4", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := do(t, s.router, http.MethodPatch, "/api/employees/EMP4", map[string]any{"position": "Lead"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Employee EMP4 updated successfully", body["message"])

	e, err := s.store.LookupEmployee(context.Background(), "EMP4")
	require.NoError(t, err)
	assert.Equal(t, "Lead", *e.Position)

	code, _ = do(t, s.router, http.MethodPatch, "/api/employees/NOPE", map[string]any{"name": "X"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLogsHandler(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 3; i++ {
		do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "EMP5"})
	}
	do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "EMP6"})

	code, body := do(t, s.router, http.MethodGet, "/api/logs?limit=2&offset=1&employee_id=emp5", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(2), body["limit"])
	assert.Equal(t, float64(1), body["offset"])

	code, body = do(t, s.router, http.MethodGet, "/api/logs?limit=abc&status=denied", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(4), body["total"])
	assert.Equal(t, float64(50), body["limit"])

	code, _ = do(t, s.router, http.MethodGet, "/api/logs?status=MAYBE", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStatisticsHandler(t *testing.T) {
	s := newTestServer(t)
	do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP7", "name": "Eve"})
	do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "EMP7"})
	do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "EMP7"})
	do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "EMP8"})

	code, body := do(t, s.router, http.MethodGet, "/api/statistics", nil)
	require.Equal(t, http.StatusOK, code)
	stats := body["statistics"].([]any)
	require.Len(t, stats, 2)

	counts := map[string]float64{}
	for _, raw := range stats {
		st := raw.(map[string]any)
		counts[st["status"].(string)] = st["count"].(float64)
	}
	assert.Equal(t, float64(2), counts["SUCCESS"])
	assert.Equal(t, float64(1), counts["DENIED"])

	code, body = do(t, s.router, http.MethodGet, "/api/statistics?end_date=2000-01-01", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["statistics"])

	code, _ = do(t, s.router, http.MethodGet, "/api/statistics?start_date=14/10/2026", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSummaryHandler(t *testing.T) {
	s := newTestServer(t)
	do(t, s.router, http.MethodPost, "/api/employees", map[string]any{"employee_id": "EMP9", "name": "Finn"})
	do(t, s.router, http.MethodPost, "/api/scan", map[string]any{"employee_id": "EMP9"})

	code, body := do(t, s.router, http.MethodGet, "/api/employees/summary?employee_id=emp9", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(30), body["days"])
	summary := body["summary"].([]any)
	require.Len(t, summary, 1)
	assert.Equal(t, float64(1), summary[0].(map[string]any)["successful_scans"])

	code, body = do(t, s.router, http.MethodGet, "/api/employees/summary?days=99999999999", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(service.MaxSummaryDays), body["days"])
}

func TestRootAndHealth(t *testing.T) {
	s := newTestServer(t)

	code, body := do(t, s.router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, ServiceVersion, body["version"])
	assert.Equal(t, "scansvc-test", body["instance_id"])

	code, body = do(t, s.router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, service.HealthHealthy, body["status"])
	db := body["database"].(map[string]any)
	assert.Equal(t, service.DBConnected, db["status"])
}

func TestDegradedMode(t *testing.T) {
	r := newDegradedServer()

	code, body := do(t, r, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, service.HealthDegraded, body["status"])
	assert.Equal(t, service.DBNotConnected, body["database"].(map[string]any)["status"])

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/scan"},
		{http.MethodGet, "/api/logs"},
		{http.MethodGet, "/api/statistics"},
		{http.MethodGet, "/api/employees"},
		{http.MethodPost, "/api/employees"},
		{http.MethodGet, "/api/employees/summary"},
		{http.MethodPut, "/api/employees/EMP001"},
		{http.MethodPatch, "/api/employees/EMP001"},
		{http.MethodDelete, "/api/employees/EMP001"},
	} {
		code, body := do(t, r, tc.method, tc.path, map[string]any{"employee_id": "EMP001"})
		assert.Equal(t, http.StatusInternalServerError, code, tc.path)
		assert.Equal(t, "Database connection error", body["message"], tc.path)
	}

	code, _ = do(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{in: "10.1.2.3:5555", want: optional("10.1.2.3")},
		{in: "10.1.2.3", want: optional("10.1.2.3")},
		{in: "[::1]:80", want: optional("::1")},
		{in: "not-an-ip", want: nil},
		{in: "", want: nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, clientIP(tt.in), tt.in)
	}
}

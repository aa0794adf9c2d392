package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomLoggerMiddleware(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	log.SetLevel(log.InfoLevel)

	h := middleware.RequestID(CustomLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Contains(t, entry.Message, "GET /api/health 418")
	assert.NotEmpty(t, entry.Data["request_id"])
	assert.Equal(t, req.RemoteAddr, entry.Data["remote"])
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"http://scanner.test"}).Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/scan", nil)
	req.Header.Set("Origin", "http://scanner.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://scanner.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("scan")

	_, err := uuid.FromString(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, CreateUniqueInstance("scan"))
}

func TestLogging_File(t *testing.T) {
	dir := t.TempDir()

	Logging("scan_service", dir, log.WarnLevel)
	defer Logging("scan_service", "", log.InfoLevel)

	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.FileExists(t, dir+"/scan_service.log")
}

package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/scan-services/internal/scansvc/models"
)

func TestObserveScan(t *testing.T) {
	m := New()
	m.ObserveScan(models.ScanSuccess)
	m.ObserveScan(models.ScanSuccess)
	m.ObserveScan(models.ScanDenied)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScanAttempts.WithLabelValues("SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScanAttempts.WithLabelValues("DENIED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ScanAttempts.WithLabelValues("ERROR")))
}

func TestObserveScan_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveScan(models.ScanError) })
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.ObserveScan(models.ScanDenied)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `scansvc_scan_attempts_total{status="DENIED"} 1`)
}

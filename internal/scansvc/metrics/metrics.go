package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avvvet/scan-services/internal/scansvc/models"
)

type Metrics struct {
	registry     *prometheus.Registry
	ScanAttempts *prometheus.CounterVec
}

// New builds a private registry holding the service collectors plus the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ScanAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scansvc",
			Name:      "scan_attempts_total",
			Help:      "Scan attempts written to the scan log, by status.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.ScanAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveScan counts one logged scan. Safe on a nil receiver.
func (m *Metrics) ObserveScan(status models.ScanStatus) {
	if m == nil {
		return
	}
	m.ScanAttempts.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

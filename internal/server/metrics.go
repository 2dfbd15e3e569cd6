package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors. Each Server owns its
// own registry so tests can build many servers in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	uploads       prometheus.Counter
	uploadBytes   prometheus.Counter
	uploadErrors  *prometheus.CounterVec
	listings      prometheus.Counter
	authFailures  prometheus.Counter
	listedObjects prometheus.Gauge
}

func newMetrics(appName, version string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdrive_requests_total",
			Help: "Total number of HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdrive_uploads_total",
			Help: "Total number of files stored.",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdrive_upload_bytes_total",
			Help: "Total number of bytes stored.",
		}),
		uploadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdrive_upload_errors_total",
			Help: "Failed upload requests by reason.",
		}, []string{"reason"}),
		listings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdrive_listings_total",
			Help: "Total number of file listings served.",
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdrive_auth_failures_total",
			Help: "Requests rejected for a missing or wrong API key.",
		}),
		listedObjects: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rdrive_stored_files",
			Help: "Number of files seen by the most recent listing.",
		}),
	}

	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "rdrive_build_info",
		Help:        "Application name and version.",
		ConstLabels: prometheus.Labels{"app": appName, "version": version},
	})
	info.Set(1)

	reg.MustRegister(
		m.requests,
		m.uploads,
		m.uploadBytes,
		m.uploadErrors,
		m.listings,
		m.authFailures,
		m.listedObjects,
		info,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) recordRequest(method string, status int) {
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) recordUpload(size int) {
	m.uploads.Inc()
	m.uploadBytes.Add(float64(size))
}

func (m *Metrics) recordUploadError(reason string) {
	m.uploadErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) recordListing(n int) {
	m.listings.Inc()
	m.listedObjects.Set(float64(n))
}

func (m *Metrics) recordAuthFailure() {
	m.authFailures.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

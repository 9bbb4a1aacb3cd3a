package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	gatherer prometheus.Gatherer

	queries         *prometheus.CounterVec
	outlierRuns     prometheus.Counter
	outliersFlagged prometheus.Gauge
	datasetRows     prometheus.Gauge
	sessionsCreated prometheus.Counter
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpInFlight     *prometheus.GaugeVec
	httpResponseSize *prometheus.HistogramVec
}

// New creates a recorder registered on the process-wide default registry.
func New() *Recorder {
	return build(prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

// NewWithRegistry creates a recorder bound to reg. Tests use a fresh registry
// per case so collectors never collide.
func NewWithRegistry(reg *prometheus.Registry) *Recorder {
	return build(reg, reg)
}

func build(reg prometheus.Registerer, g prometheus.Gatherer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		gatherer: g,
		queries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_chat_queries_total",
				Help: "Chat questions answered, by matched rule",
			},
			[]string{"rule"},
		),
		outlierRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "findash_outlier_runs_total",
			Help: "Number of outlier detection runs",
		}),
		outliersFlagged: f.NewGauge(prometheus.GaugeOpts{
			Name: "findash_outliers_flagged",
			Help: "Rows flagged by the most recent outlier run",
		}),
		datasetRows: f.NewGauge(prometheus.GaugeOpts{
			Name: "findash_dataset_rows",
			Help: "Rows in the loaded dataset",
		}),
		sessionsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "findash_chat_sessions_created_total",
			Help: "Chat sessions created",
		}),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "findash_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "findash_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "class"},
		),
		httpInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "http_in_flight_requests",
				Help: "Current number of in-flight HTTP requests",
			},
			[]string{"route", "method"},
		),
		httpResponseSize: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{200, 500, 1_000, 2_000, 5_000, 10_000, 50_000, 100_000, 500_000, 1_000_000},
			},
			[]string{"route", "method", "class"},
		),
	}
}

// Handler exposes the bound registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// RecordQuery counts an answered chat question under its rule name.
func (r *Recorder) RecordQuery(rule string) {
	r.queries.WithLabelValues(rule).Inc()
}

// RecordOutlierRun records one detection run and how many rows it flagged.
func (r *Recorder) RecordOutlierRun(flagged int) {
	r.outlierRuns.Inc()
	r.outliersFlagged.Set(float64(flagged))
}

// RecordDatasetRows records the size of the loaded dataset.
func (r *Recorder) RecordDatasetRows(n int) {
	r.datasetRows.Set(float64(n))
}

// RecordSessionCreated counts a new chat session.
func (r *Recorder) RecordSessionCreated() {
	r.sessionsCreated.Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// TrackInFlight adjusts the in-flight gauge for a route.
func (r *Recorder) TrackInFlight(route, method string, delta float64) {
	r.httpInFlight.WithLabelValues(route, method).Add(delta)
}

// ObserveHTTP records a finished HTTP request.
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration, bytes int64) {
	class := StatusClass(status)
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method, class).Observe(d.Seconds())
	r.httpResponseSize.WithLabelValues(route, method, class).Observe(float64(bytes))
}

// StatusClass buckets an HTTP status code as 1xx..5xx.
func StatusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

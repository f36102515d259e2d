package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "receipt_processor",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receipt_processor",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "receipt_processor",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"method", "path"},
	)

	receiptsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receipt_processor",
			Subsystem: "receipts",
			Name:      "processed_total",
			Help:      "Receipts submitted, by outcome.",
		},
		[]string{"result"},
	)

	receiptPoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "receipt_processor",
			Subsystem: "receipts",
			Name:      "points",
			Help:      "Points awarded per scored receipt.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		},
	)
)

// Receipt outcomes recorded by RecordReceipt.
const (
	ResultAccepted = "accepted"
	ResultInvalid  = "invalid"
	ResultFailed   = "failed"
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		receiptsProcessed,
		receiptPoints,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
// Registered as mux middleware so the matched route template is the path label.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := NewStatusRecorder(w)
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		path := RoutePath(r)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordReceipt counts one receipt submission outcome.
func RecordReceipt(result string) {
	receiptsProcessed.WithLabelValues(result).Inc()
}

// ObservePoints records the score handed out for a receipt.
func ObservePoints(points int) {
	receiptPoints.Observe(float64(points))
}

// RoutePath returns the matched route template, keeping receipt IDs out of labels.
func RoutePath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// StatusRecorder captures the status code written by a handler.
type StatusRecorder struct {
	http.ResponseWriter
	status int
}

func NewStatusRecorder(w http.ResponseWriter) *StatusRecorder {
	return &StatusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *StatusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *StatusRecorder) Status() int {
	return r.status
}

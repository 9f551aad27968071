package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smoothop",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "smoothop",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Detection metrics
	detectionRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "detection",
			Name:      "runs_total",
			Help:      "Total number of detection runs",
		},
		[]string{"sector", "status"},
	)

	detectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smoothop",
			Subsystem: "detection",
			Name:      "run_duration_seconds",
			Help:      "Duration of a detection run in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"sector"},
	)

	anomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "detection",
			Name:      "anomalies_total",
			Help:      "Total number of anomalous verdicts",
		},
		[]string{"sector", "severity"},
	)

	detectorFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "detection",
			Name:      "detector_failures_total",
			Help:      "Total number of isolated detector failures",
		},
		[]string{"detector", "phase"},
	)

	// Training metrics
	trainingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "training",
			Name:      "runs_total",
			Help:      "Total number of training runs",
		},
		[]string{"sector", "trigger", "status"},
	)

	trainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smoothop",
			Subsystem: "training",
			Name:      "duration_seconds",
			Help:      "Duration of a training run in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"sector"},
	)

	// Alert metrics
	alertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "alert",
			Name:      "created_total",
			Help:      "Total number of alerts created",
		},
		[]string{"sector", "severity"},
	)

	alertsDeduplicatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "alert",
			Name:      "deduplicated_total",
			Help:      "Total number of verdicts folded into an existing alert",
		},
		[]string{"sector"},
	)

	alertsReactivatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "alert",
			Name:      "reactivated_total",
			Help:      "Total number of acknowledged alerts re-activated by recurrence",
		},
	)

	activeAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smoothop",
			Subsystem: "alert",
			Name:      "active_count",
			Help:      "Number of active (unresolved, unacknowledged) alerts",
		},
		[]string{"severity"},
	)

	// Response metrics
	responseActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "response",
			Name:      "actions_total",
			Help:      "Total number of response actions by final status",
		},
		[]string{"action", "status"},
	)

	pendingApprovals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "smoothop",
			Subsystem: "response",
			Name:      "pending_approvals",
			Help:      "Number of response actions awaiting approval",
		},
	)

	responseExecutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smoothop",
			Subsystem: "response",
			Name:      "execution_duration_seconds",
			Help:      "Duration of response action execution in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"action"},
	)

	// Queue metrics
	queuePublishesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smoothop",
			Subsystem: "queue",
			Name:      "publishes_total",
			Help:      "Total number of event bus publishes",
		},
		[]string{"topic", "status"},
	)

	// WebSocket metrics
	wsClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "smoothop",
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Number of connected websocket clients",
		},
	)

	// Database metrics
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smoothop",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "table"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the metrics wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDetectionRun records a detection run and its duration
func RecordDetectionRun(sector, status string, duration time.Duration) {
	detectionRunsTotal.WithLabelValues(sector, status).Inc()
	detectionDuration.WithLabelValues(sector).Observe(duration.Seconds())
}

// RecordAnomaly records an anomalous verdict
func RecordAnomaly(sector, severity string) {
	anomaliesTotal.WithLabelValues(sector, severity).Inc()
}

// RecordDetectorFailure records an isolated detector error
func RecordDetectorFailure(detector, phase string) {
	detectorFailuresTotal.WithLabelValues(detector, phase).Inc()
}

// RecordTrainingRun records a training run and its duration
func RecordTrainingRun(sector, trigger, status string, duration time.Duration) {
	trainingRunsTotal.WithLabelValues(sector, trigger, status).Inc()
	trainingDuration.WithLabelValues(sector).Observe(duration.Seconds())
}

// RecordAlertCreated records a newly created alert
func RecordAlertCreated(sector, severity string) {
	alertsCreatedTotal.WithLabelValues(sector, severity).Inc()
}

// RecordAlertDeduplicated records a verdict merged into an open alert
func RecordAlertDeduplicated(sector string) {
	alertsDeduplicatedTotal.WithLabelValues(sector).Inc()
}

// RecordAlertReactivated records a quiet-period re-activation
func RecordAlertReactivated() {
	alertsReactivatedTotal.Inc()
}

// SetActiveAlerts sets the gauge for active alerts by severity
func SetActiveAlerts(severity string, count float64) {
	activeAlerts.WithLabelValues(severity).Set(count)
}

// RecordResponseAction records a response action reaching a final status
func RecordResponseAction(action, status string, duration time.Duration) {
	responseActionsTotal.WithLabelValues(action, status).Inc()
	responseExecutionDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// SetPendingApprovals sets the gauge for actions awaiting approval
func SetPendingApprovals(count float64) {
	pendingApprovals.Set(count)
}

// RecordQueuePublish records an event bus publish attempt
func RecordQueuePublish(topic, status string) {
	queuePublishesTotal.WithLabelValues(topic, status).Inc()
}

// SetWSClients sets the gauge for connected websocket clients
func SetWSClients(count float64) {
	wsClients.Set(count)
}

// RecordDBQuery records a database query duration
func RecordDBQuery(operation, table string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

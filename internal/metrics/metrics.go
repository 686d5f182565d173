package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry agrupa los collectors propios del servicio.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "skincare",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skincare",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skincare",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms a ~5s
		},
		[]string{"method", "path"},
	)

	analyzerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skincare",
			Subsystem: "analyzer",
			Name:      "calls_total",
			Help:      "Calls to the remote analysis service by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	analyzerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skincare",
			Subsystem: "analyzer",
			Name:      "call_duration_seconds",
			Help:      "Duration of calls to the remote analysis service, retries included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms a ~25s
		},
		[]string{"op"},
	)

	analyzerRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skincare",
			Subsystem: "analyzer",
			Name:      "retries_total",
			Help:      "Retried attempts against the remote analysis service.",
		},
		[]string{"op"},
	)

	stateActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skincare",
			Subsystem: "state",
			Name:      "actions_total",
			Help:      "Session state actions dispatched by action and result.",
		},
		[]string{"action", "result"},
	)

	uploadDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skincare",
			Subsystem: "uploads",
			Name:      "rate_limit_decisions_total",
			Help:      "Upload rate limit decisions by backend and decision.",
		},
		[]string{"backend", "decision"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		analyzerCalls,
		analyzerDuration,
		analyzerRetries,
		stateActions,
		uploadDecisions,
	)
}

// Handler expone el registry en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware registra latencia y conteo por ruta.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInFlight.Inc()
		start := time.Now()
		c.Next()
		httpInFlight.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequests.WithLabelValues(c.Request.Method, path, status).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordAnalyzerCall registra una llamada al servicio remoto.
func RecordAnalyzerCall(op, outcome string, d time.Duration) {
	analyzerCalls.WithLabelValues(op, outcome).Inc()
	analyzerDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordAnalyzerRetry registra un reintento.
func RecordAnalyzerRetry(op string) {
	analyzerRetries.WithLabelValues(op).Inc()
}

// RecordStateAction registra una accion sobre el estado de sesion.
func RecordStateAction(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	stateActions.WithLabelValues(action, result).Inc()
}

// RecordUploadDecision registra una decision del limitador de envios.
// decision: allowed, denied, fail_open o fail_closed.
func RecordUploadDecision(backend, decision string) {
	uploadDecisions.WithLabelValues(backend, decision).Inc()
}

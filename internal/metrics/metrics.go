// Package metrics exposes Prometheus metrics for the goroots servers.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goroots "github.com/njchilds90/goroots"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goroots_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goroots_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	httpRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "goroots_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Tool metrics
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goroots_tool_calls_total",
			Help: "Total number of tool calls",
		},
		[]string{"tool", "outcome"},
	)

	// Solver metrics
	solvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goroots_solves_total",
			Help: "Total number of solver runs by method and final status",
		},
		[]string{"method", "status"},
	)

	solveIterations = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goroots_solve_iterations",
			Help:    "Iterations used per solver run",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 250, 500, 1000},
		},
		[]string{"method"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// knownTools bounds the tool label; anything else is counted as "other".
var knownTools = map[string]bool{
	"parse": true, "diff": true, "eval": true,
	"bisection": true, "secant": true, "newton": true,
	"solve": true, "sample": true, "tool_spec": true,
}

// RecordToolCall counts one tool call; failed is true when the response
// carried an error.
func RecordToolCall(tool string, failed bool) {
	if !knownTools[tool] {
		tool = "other"
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	toolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// RecordSolve counts one solver run and its iteration count.
func RecordSolve(res goroots.SolveResult) {
	m := res.Method.String()
	solvesTotal.WithLabelValues(m, res.Status.String()).Inc()
	solveIterations.WithLabelValues(m).Observe(float64(res.Iterations))
}

// RecordRateLimited counts one rejected request.
func RecordRateLimited() {
	httpRateLimited.Inc()
}

// Middleware records request count and latency under the given path label.
// Paths are passed in rather than read from the request to keep label
// cardinality bounded.
func Middleware(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush lets streaming handlers behind the middleware keep working.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

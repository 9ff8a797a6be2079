package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Counter: how many times we served forecast data from cache.
	ForecastCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forecast_cache_hits_total",
			Help: "Total number of forecast cache hits.",
		},
	)

	// Counter: individual attempts against the UV provider, retries included.
	UpstreamAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "uv_upstream_attempts_total",
			Help: "Total number of HTTP attempts against the UV forecast provider.",
		},
	)

	// Histogram: HTTP latency in seconds.
	RequestLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "suncal_latency_seconds",
			Help:    "HTTP request latency for the calendar service in seconds.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
		},
		[]string{"path", "method", "status_code"},
	)
)

// Register is called once in main() to register metrics.
func Register() {
	prometheus.MustRegister(
		ForecastCacheHitsTotal,
		UpstreamAttemptsTotal,
		RequestLatencySeconds,
	)
}

// Handler exposes the /metrics endpoint for Prometheus to scrape.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware measures latency for each HTTP request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// capture status code
		rec := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rec, r)

		duration := time.Since(start).Seconds()

		RequestLatencySeconds.
			WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(rec.statusCode)).
			Observe(duration)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

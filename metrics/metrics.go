package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// 1) Request volume
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by method, route and status.",
	}, []string{"method", "endpoint", "status_code"})

	// 2) Request latency
	RequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Handler duration for HTTP requests.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "endpoint"})

	// 3) Concurrency (in flight)
	ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "active_connections",
		Help: "Current number of in-flight requests.",
	})

	// 4) Domain volume
	DailyCheckInsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "daily_checkins_total",
		Help: "Total number of recorded daily check-ins.",
	})

	// 5) Failures
	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Responses with status >= 400 by error class and route.",
	}, []string{"type", "endpoint"})

	// 6) Rate limiting drops
	RateLimitDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_dropped_total",
		Help: "Requests rejected by the per-IP rate limiter.",
	})
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		RequestsTotal,
		RequestDurationSeconds,
		ActiveConnections,
		DailyCheckInsTotal,
		ErrorsTotal,
		RateLimitDroppedTotal,
	)
}

// ErrorType buckets a response status into the label used by ErrorsTotal.
func ErrorType(status int) string {
	switch {
	case status >= 500:
		return "server_error"
	case status == 401 || status == 403:
		return "auth_error"
	case status == 404:
		return "not_found"
	case status == 409:
		return "conflict"
	case status == 429:
		return "rate_limited"
	default:
		return "client_error"
	}
}

package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/consigliere/metrics"
)

// RequestMetrics records volume, latency and failures per matched route.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		start := time.Now()
		c.Next()

		// use the route template so /uploads/<file> does not explode label cardinality
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()

		metrics.RequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(status)).Inc()
		metrics.RequestDurationSeconds.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
		if status >= 400 {
			metrics.ErrorsTotal.WithLabelValues(metrics.ErrorType(status), endpoint).Inc()
		}
	}
}

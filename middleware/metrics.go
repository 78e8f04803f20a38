package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/eduquest/metrics"
)

// RequestMetrics counts requests and observes latency per route template.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Use the route template so /courses/:id is one series
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if route == "/metrics" {
			c.Next()
			return
		}
		method := c.Request.Method
		start := time.Now()
		active := metrics.HTTPRequestsActive.WithLabelValues(route, method)
		active.Inc()
		defer active.Dec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())
	}
}

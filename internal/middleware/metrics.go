package middleware

import (
	"time"

	"github.com/SscSPs/exchange_office_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts and latencies by route template.
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

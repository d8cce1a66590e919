package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/RxGene-Intelligence/internal/infrastructure/monitoring/metrics"
)

// Metrics returns middleware that records request counts, latencies, and the
// in-flight gauge. The route template (c.FullPath) is used as the path label
// so parameterised routes do not explode the label space; unmatched routes
// fall back to a fixed label.
func Metrics(appMetrics *metrics.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		if appMetrics != nil {
			appMetrics.HTTPActiveRequests.WithLabelValues(method, path).Inc()
		}
		start := time.Now()

		c.Next()

		if appMetrics != nil {
			appMetrics.HTTPActiveRequests.WithLabelValues(method, path).Dec()
		}
		metrics.RecordHTTPRequest(appMetrics, method, path, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending

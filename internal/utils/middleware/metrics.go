package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/votely/server/internal/utils/metrics"
)

// Metrics returns a middleware that records HTTP request metrics.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()

		c.Next()

		m.HTTPRequestsInFlight.Dec()

		// Route template, not the raw URL, to keep cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package mw

import (
	"time"

	"github.com/gin-gonic/gin"

	"equipment-inventory/internal/metrics"
)

// Metrics records request counts and latency by matched route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

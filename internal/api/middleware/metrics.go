package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farmlog/farmlog-api/internal/metrics"
)

// Prometheus records HTTP request metrics labelled by route pattern.
func Prometheus() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(
			ctx.Request.Method,
			path,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			ctx.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}

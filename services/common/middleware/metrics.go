package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	awspkg "github.com/yashrajoria/grocery-agent/pkg/aws"
)

// HTTPMetricsRecorder is satisfied by *pkg/aws.MetricsClient, including a nil one.
type HTTPMetricsRecorder interface {
	RecordCount(ctx context.Context, name string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, name string, d time.Duration, dimensions map[string]string) error
	IsEnabled() bool
}

// MetricsMiddleware publishes request count, latency and error class per route.
// Publishing happens off the request goroutine.
func MetricsMiddleware(rec HTTPMetricsRecorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rec == nil || !rec.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		dims := map[string]string{
			"Service": serviceName,
			"Method":  c.Request.Method,
			"Path":    route,
			"Status":  statusClass(status),
		}

		names := []string{awspkg.MetricHTTPRequests}
		switch {
		case status >= 500:
			names = append(names, awspkg.MetricHTTPErrors, awspkg.MetricHTTP5xx)
		case status >= 400:
			names = append(names, awspkg.MetricHTTPErrors, awspkg.MetricHTTP4xx)
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = rec.RecordLatency(ctx, awspkg.MetricHTTPLatency, elapsed, dims)
			for _, n := range names {
				_ = rec.RecordCount(ctx, n, dims)
			}
		}()
	}
}

// statusClass maps 404 to "4xx".
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

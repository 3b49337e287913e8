// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the upload pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// UploadsTotal counts pipeline runs by resource kind and result (ok, rejected, failed).
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_uploads_total",
			Help: "File uploads handled by the upload pipeline.",
		},
		[]string{"kind", "result"},
	)

	UploadBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_upload_bytes_total",
		Help: "Bytes successfully sent to the remote media store.",
	})

	// RemoteDeletesTotal counts best-effort remote deletions by result (ok, failed).
	RemoteDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_remote_deletes_total",
			Help: "Remote media deletions issued on record update or delete.",
		},
		[]string{"result"},
	)
)

// Middleware records request count and latency. The route label is gin's
// route template, so ids never leak into label values.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

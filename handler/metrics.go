package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chinamap",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chinamap",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	tileRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chinamap",
		Subsystem: "tiles",
		Name:      "requests_total",
		Help:      "Proxied tile requests by layer and cache result",
	}, []string{"layer", "cache"})

	districtLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chinamap",
		Subsystem: "administrative",
		Name:      "lookups_total",
		Help:      "Administrative lookups by source",
	}, []string{"source"})

	upstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chinamap",
		Subsystem: "tianditu",
		Name:      "errors_total",
		Help:      "Failed requests to the tianditu service",
	}, []string{"service"})
)

// MetricsMiddleware 记录请求数及耗时
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Package metrics collects and exposes Prometheus metrics for the
// catalog server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request-level metrics for feed, cover and download
// handlers.
type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	downloads      *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opdserve_requests_total",
			Help: "Catalog requests by route and status code",
		}, []string{"route", "status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "opdserve_request_latency_seconds",
			Help:    "Catalog request latency in seconds by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "opdserve_downloads_total",
			Help: "Book format downloads by format",
		}, []string{"format"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.downloads,
	)

	return c
}

// RecordRequest records one handled request.
func (c *Collector) RecordRequest(route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordDownload records a completed book format download.
func (c *Collector) RecordDownload(format string) {
	c.downloads.WithLabelValues(format).Inc()
}

// Middleware returns a Gin middleware recording per-route request
// metrics. Routes are labelled by their registered path pattern, not
// the raw URL, to keep cardinality bounded.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.RecordRequest(route, ctx.Writer.Status(), time.Since(start))
	}
}

// Handler returns the HTTP handler serving Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

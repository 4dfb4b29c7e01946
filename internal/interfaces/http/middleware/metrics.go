package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetricsConfig holds configuration for the HTTP metrics middleware.
type HTTPMetricsConfig struct {
	// ServiceName labels every metric with the emitting service
	ServiceName string
	// Registry receives the instruments; nil uses a fresh registry
	Registry *prometheus.Registry
	// SkipPaths are paths excluded from metrics (the scrape endpoint itself, health probes)
	SkipPaths []string
}

// DefaultHTTPMetricsConfig returns the default HTTP metrics configuration.
func DefaultHTTPMetricsConfig() HTTPMetricsConfig {
	return HTTPMetricsConfig{
		ServiceName: "retailpos-backend",
		SkipPaths:   []string{"/metrics", "/health", "/healthz", "/ready"},
	}
}

// HTTPMetricsCollector owns the Prometheus instruments for the HTTP
// server and exposes both the recording middleware and the scrape
// handler backed by the same registry.
type HTTPMetricsCollector struct {
	cfg      HTTPMetricsConfig
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestSize     *prometheus.HistogramVec
	responseSize    *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
}

// NewHTTPMetricsCollector builds and registers the HTTP server instruments.
func NewHTTPMetricsCollector(cfg HTTPMetricsConfig) *HTTPMetricsCollector {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	constLabels := prometheus.Labels{"service": cfg.ServiceName}

	c := &HTTPMetricsCollector{
		cfg:      cfg,
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_server_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_server_request_duration_seconds",
			Help:        "HTTP request latency distribution in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		requestSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_server_request_size_bytes",
			Help:        "HTTP request body size distribution in bytes",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(128, 4, 8),
		}, []string{"method", "route"}),
		responseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_server_response_size_bytes",
			Help:        "HTTP response body size distribution in bytes",
			ConstLabels: constLabels,
			Buckets:     prometheus.ExponentialBuckets(128, 4, 8),
		}, []string{"method", "route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_server_active_requests",
			Help:        "Number of currently active HTTP requests",
			ConstLabels: constLabels,
		}),
	}

	registry.MustRegister(
		c.requestTotal,
		c.requestDuration,
		c.requestSize,
		c.responseSize,
		c.activeRequests,
	)

	return c
}

// Middleware records request metrics for every handled route. Routes
// are labeled by their registered pattern, not the raw path, so
// /products/:id stays a single series regardless of IDs.
func (m *HTTPMetricsCollector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range m.cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		start := time.Now()
		m.activeRequests.Inc()

		c.Next()

		m.activeRequests.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.requestTotal.WithLabelValues(method, route, status).Inc()
		m.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if c.Request.ContentLength > 0 {
			m.requestSize.WithLabelValues(method, route).Observe(float64(c.Request.ContentLength))
		}
		if size := c.Writer.Size(); size > 0 {
			m.responseSize.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}

// Handler returns the scrape endpoint handler for this collector's registry.
func (m *HTTPMetricsCollector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Registry exposes the underlying registry so other components can
// register their own instruments on the same scrape endpoint.
func (m *HTTPMetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

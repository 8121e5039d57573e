package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "around",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "around",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	// Search metrics
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "around",
		Subsystem: "search",
		Name:      "requests_total",
		Help:      "Applied nearby searches by outcome (loaded, error)",
	}, []string{"outcome"})

	SearchStaleDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "around",
		Subsystem: "search",
		Name:      "stale_discarded_total",
		Help:      "Search responses dropped because a newer search was issued",
	})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "around",
		Subsystem: "search",
		Name:      "duration_seconds",
		Help:      "Latency of backend search requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// Geolocation metrics
	GeolocationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "around",
		Subsystem: "geolocation",
		Name:      "requests_total",
		Help:      "Geolocation fixes by outcome (ok, failed, unavailable)",
	}, []string{"outcome"})

	// Viewport metrics
	ViewportRadius = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "around",
		Subsystem: "viewport",
		Name:      "radius_miles",
		Help:      "Search radius derived from the map viewport",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "around",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

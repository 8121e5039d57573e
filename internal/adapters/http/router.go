package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/around-app/around/internal/pkg/metrics"
)

// requestTimeout bounds the client-state routes. Routes that reach the
// backend are not wrapped; the only bound there is api.request_timeout on
// the backend client, and none by default.
const requestTimeout = 30 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// The UI polls; 600 requests per minute per IP leaves room for that.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/position", timeout.NewWithContext(GetPositionHandler(deps), requestTimeout))
	v1.Put("/position", timeout.NewWithContext(PutPositionHandler(deps), requestTimeout))
	v1.Put("/session/token", timeout.NewWithContext(PutTokenHandler(deps), requestTimeout))
	v1.Get("/geolocation", GeolocationStatusHandler(deps))
	v1.Post("/geolocation/refresh", RefreshGeolocationHandler(deps))
	v1.Post("/search", SearchHandler(deps))
	v1.Get("/search/result", SearchResultHandler(deps))
	v1.Post("/viewport/dragend", ViewportHandler(deps, false))
	v1.Post("/viewport/zoom", ViewportHandler(deps, true))
	v1.Get("/gallery", GalleryHandler(deps))
	v1.Post("/posts", CreatePostHandler(deps))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}

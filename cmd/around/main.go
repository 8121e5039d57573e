package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/around-app/around/internal/adapters/backend"
	"github.com/around-app/around/internal/adapters/geolocation"
	handler "github.com/around-app/around/internal/adapters/http"
	"github.com/around-app/around/internal/adapters/memory"
	natsadapter "github.com/around-app/around/internal/adapters/nats"
	"github.com/around-app/around/internal/adapters/postgres"
	"github.com/around-app/around/internal/adapters/valkey"
	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/ports"
	"github.com/around-app/around/internal/core/usecases"
	"github.com/around-app/around/internal/pkg/config"
	"github.com/around-app/around/internal/pkg/logging"
	"github.com/around-app/around/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("around")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &handler.Dependencies{}

	// Client state
	var state ports.StateStore
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		deps.DB = db
		state = postgres.NewStateStore(db)
	case config.DriverValkey:
		store, err := valkey.New(cfg.Valkey.Addr, cfg.Storage.KeyPrefix)
		if err != nil {
			log.Fatalf("valkey: %v", err)
		}
		defer store.Close()
		deps.Valkey = store
		state = store
	default:
		slog.Warn("using in-memory state, position and token are lost on restart")
		state = memory.NewStore()
	}

	// NATS (optional): events for UI shells and the WebSocket relay
	var publisher ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, events are not published", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		deps.NATS = pub.Conn()
	}

	// Backend
	api := backend.New(cfg.API.Root, cfg.API.AuthPrefix,
		backend.WithTimeout(time.Duration(cfg.API.RequestTimeout)*time.Second))

	// Use cases
	positions := usecases.NewPositionStore(state, publisher, cfg.Storage.PosKey, cfg.Storage.TokenKey)
	search := usecases.NewSearchController(api, positions, publisher, cfg.API.DefaultRadius)
	geo := usecases.NewGeolocationService(newLocator(cfg.Geolocation), positions, search, publisher, domain.GeoOptions{
		EnableHighAccuracy: cfg.Geolocation.EnableHighAccuracy,
		TimeoutMs:          cfg.Geolocation.TimeoutMs,
		MaximumAgeMs:       cfg.Geolocation.MaximumAgeMs,
	})
	viewport := usecases.NewViewportService(positions, search)

	deps.Positions = positions
	deps.Search = search
	deps.Geolocation = geo
	deps.Viewport = viewport
	deps.Gallery = usecases.NewGalleryPresenter(geo, search)
	deps.Posts = usecases.NewPostService(api, positions, search)

	// Viewport events arriving over NATS
	if pub != nil {
		sub, err := natsadapter.NewSubscriber(pub.Conn())
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			err := sub.SubscribeViewport(ctx, func(ctx context.Context, b *domain.ViewportBounds, zoom bool) error {
				if zoom {
					_, err := viewport.ZoomChanged(ctx, b)
					return err
				}
				_, err := viewport.DragEnd(ctx, b)
				return err
			})
			if err != nil {
				slog.Warn("viewport subscription failed", "error", err)
			}
		}
	}

	// Start-up geolocation fix; the UI shows the error state if unavailable.
	if err := geo.Start(ctx); err != nil {
		slog.Warn("geolocation", "error", err)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "around client core",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	handler.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("client core starting", "addr", addr, "api_root", cfg.API.Root, "storage", cfg.Storage.Driver)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
	geo.Wait()

	slog.Info("server stopped")
}

// newLocator returns nil when geolocation is switched off, which the
// geolocation service treats as the capability being absent.
func newLocator(cfg config.GeolocationConfig) ports.Geolocator {
	switch cfg.Provider {
	case config.ProviderStatic:
		return geolocation.NewStaticLocator(domain.GeoPosition{Lat: cfg.StaticLat, Lon: cfg.StaticLon})
	case config.ProviderIPAPI:
		return geolocation.NewIPLocator(cfg.IPAPIURL, &http.Client{})
	default:
		return nil
	}
}

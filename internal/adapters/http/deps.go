package http

import (
	"github.com/nats-io/nats.go"

	"github.com/around-app/around/internal/adapters/postgres"
	"github.com/around-app/around/internal/adapters/valkey"
	"github.com/around-app/around/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Positions   *usecases.PositionStore
	Search      *usecases.SearchController
	Geolocation *usecases.GeolocationService
	Viewport    *usecases.ViewportService
	Gallery     *usecases.GalleryPresenter
	Posts       *usecases.PostService
	NATS        *nats.Conn
	DB          *postgres.DB
	Valkey      *valkey.Store
}

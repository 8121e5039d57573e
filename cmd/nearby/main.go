// Command nearby runs one nearby search and prints the result as JSON.
//
//	nearby [-lat 37.77 -lon -122.42] [-range 5] [-token T]
//
// Without -lat/-lon the position persisted by the client core is used.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/around-app/around/internal/adapters/backend"
	"github.com/around-app/around/internal/adapters/memory"
	"github.com/around-app/around/internal/adapters/postgres"
	"github.com/around-app/around/internal/adapters/valkey"
	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/ports"
	"github.com/around-app/around/internal/core/usecases"
	"github.com/around-app/around/internal/pkg/config"
	"github.com/around-app/around/internal/pkg/logging"
)

func main() {
	lat := flag.Float64("lat", 0, "latitude (default: stored position)")
	lon := flag.Float64("lon", 0, "longitude (default: stored position)")
	radius := flag.Float64("range", 0, "search radius in miles (default: api.default_radius)")
	token := flag.String("token", "", "session token (default: stored token)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	cfg, err := config.Load("around-nearby")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stderr, cfg.Log.Level, "text"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	state, closeState, err := openState(ctx, cfg)
	if err != nil {
		slog.Error("open state", "error", err)
		os.Exit(1)
	}
	defer closeState()

	positions := usecases.NewPositionStore(state, nil, cfg.Storage.PosKey, cfg.Storage.TokenKey)
	if *token != "" {
		// Flag tokens are not persisted.
		positions = usecases.NewPositionStore(overlay{StateStore: state, key: cfg.Storage.TokenKey, value: *token}, nil,
			cfg.Storage.PosKey, cfg.Storage.TokenKey)
	}

	api := backend.New(cfg.API.Root, cfg.API.AuthPrefix,
		backend.WithTimeout(time.Duration(cfg.API.RequestTimeout)*time.Second))
	search := usecases.NewSearchController(api, positions, nil, cfg.API.DefaultRadius)

	req := usecases.SearchRequest{Radius: *radius}
	if isSet("lat") || isSet("lon") {
		req.Position = &domain.GeoPosition{Lat: *lat, Lon: *lon}
		if err := req.Position.Validate(); err != nil {
			slog.Error("invalid position", "error", err)
			os.Exit(2)
		}
	}

	res := search.Search(ctx, req)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		slog.Error("encode result", "error", err)
		os.Exit(1)
	}
	if err := res.Err(); err != nil {
		slog.Error("nearby search", "error", err)
		os.Exit(1)
	}
}

func isSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func openState(ctx context.Context, cfg *config.Config) (ports.StateStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStateStore(db), db.Close, nil
	case config.DriverValkey:
		store, err := valkey.New(cfg.Valkey.Addr, cfg.Storage.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return memory.NewStore(), func() {}, nil
	}
}

// overlay answers one key from memory and defers everything else.
type overlay struct {
	ports.StateStore
	key   string
	value string
}

func (o overlay) Get(ctx context.Context, key string) ([]byte, error) {
	if key == o.key {
		return []byte(o.value), nil
	}
	return o.StateStore.Get(ctx, key)
}

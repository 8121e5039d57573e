package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/around-app/around/internal/adapters/nats"
	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/usecases"
	"github.com/around-app/around/internal/pkg/metrics"
)

// wsMessage is sent from the UI shell when the map settles or a search is wanted.
type wsMessage struct {
	Action string                 `json:"action"` // "dragend" | "zoom" | "search"
	Bounds *domain.ViewportBounds `json:"bounds,omitempty"`
	Lat    *float64               `json:"lat,omitempty"`
	Lon    *float64               `json:"lon,omitempty"`
	Range  float64                `json:"range,omitempty"`
}

// relayedSubjects are pushed to every connected client.
var relayedSubjects = []string{
	natsadapter.SubjectSearchResult,
	natsadapter.SubjectPosition,
	natsadapter.SubjectGeolocation,
}

// WebSocketHandler returns a handler that upgrades to WebSocket, relays
// client-core events from NATS and accepts viewport events from the UI.
// Without NATS the outcome of each action is written back directly.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		writeRaw := func(data []byte) error {
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		writeEvent := func(subject string, v any) {
			data, err := natsadapter.Envelope(subject, v)
			if err == nil {
				_ = writeRaw(data)
			}
		}

		var subs []*nats.Subscription
		if deps.NATS != nil {
			for _, subject := range relayedSubjects {
				sub, err := deps.NATS.Subscribe(subject, func(msg *nats.Msg) {
					_ = writeRaw(msg.Data)
				})
				if err != nil {
					slog.Warn("ws subscribe failed", "subject", subject, "error", err)
					continue
				}
				subs = append(subs, sub)
			}
		}
		relayed := len(subs) > 0

		// Initial snapshot so a fresh UI does not wait for the next change.
		writeEvent(natsadapter.SubjectGeolocation, deps.Geolocation.Status())
		writeEvent(natsadapter.SubjectSearchResult, deps.Search.Result())

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		ctx := context.Background()
		for {
			_, raw, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(raw, &m); err != nil {
				writeEvent("error", map[string]string{"error": "invalid JSON"})
				continue
			}

			res, err := dispatch(ctx, deps, m)
			if err != nil {
				writeEvent("error", map[string]string{"error": err.Error()})
				continue
			}
			if !relayed {
				writeEvent(natsadapter.SubjectSearchResult, res)
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}

func dispatch(ctx context.Context, deps *Dependencies, m wsMessage) (domain.SearchResult, error) {
	switch m.Action {
	case "dragend":
		return deps.Viewport.DragEnd(ctx, m.Bounds)
	case "zoom":
		return deps.Viewport.ZoomChanged(ctx, m.Bounds)
	case "search":
		req := usecases.SearchRequest{Radius: m.Range}
		if m.Lat != nil && m.Lon != nil {
			pos := domain.GeoPosition{Lat: *m.Lat, Lon: *m.Lon}
			if err := pos.Validate(); err != nil {
				return domain.SearchResult{}, err
			}
			req.Position = &pos
		}
		return deps.Search.Search(ctx, req), nil
	default:
		return domain.SearchResult{}, fmt.Errorf("unknown action: %q", m.Action)
	}
}

package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/around-app/around/internal/core/domain"
)

// Subjects carrying client-core events.
const (
	SubjectSearchResult  = "around.search.result"
	SubjectPosition      = "around.position"
	SubjectGeolocation   = "around.geolocation"
	SubjectViewportDrag  = "around.viewport.dragend"
	SubjectViewportZoom  = "around.viewport.zoom"
	SubjectViewportAll   = "around.viewport.>"
	SubjectPresentation  = "around.>"
	eventStreamName      = "AROUND_EVENTS"
	eventStreamRetention = 1 * time.Hour

	// publishTimeout bounds the wait for a JetStream ack.
	publishTimeout = 2 * time.Second
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      eventStreamName,
		Subjects:  []string{SubjectPresentation},
		Retention: nats.LimitsPolicy,
		MaxAge:    eventStreamRetention,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishSearchResult(ctx context.Context, r domain.SearchResult) error {
	return p.publish(ctx, SubjectSearchResult, r)
}

func (p *Publisher) PublishPosition(ctx context.Context, pos domain.GeoPosition) error {
	return p.publish(ctx, SubjectPosition, pos)
}

func (p *Publisher) PublishGeolocation(ctx context.Context, s domain.GeolocationStatus) error {
	return p.publish(ctx, SubjectGeolocation, s)
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := Envelope(subject, v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for relays and readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Event is the wire envelope for every published message.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Envelope wraps v in an Event tagged with subject.
func Envelope(subject string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", subject, err)
	}
	return json.Marshal(Event{Type: subject, Data: data})
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("around"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}

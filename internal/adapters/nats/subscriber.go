package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/around-app/around/internal/core/domain"
)

// ViewportHandler receives a settled viewport; zoom is false for drag-end.
type ViewportHandler func(ctx context.Context, bounds *domain.ViewportBounds, zoom bool) error

// Subscriber consumes viewport events published by a UI shell over NATS.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber on an existing connection.
func NewSubscriber(conn *nats.Conn) (*Subscriber, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeViewport delivers drag-end and zoom events to handler. Messages
// that cannot be decoded are terminated rather than redelivered.
func (s *Subscriber) SubscribeViewport(ctx context.Context, handler ViewportHandler) error {
	sub, err := s.js.Subscribe(SubjectViewportAll, func(msg *nats.Msg) {
		bounds, err := DecodeViewport(msg.Data)
		if err != nil {
			slog.Warn("dropping viewport event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, bounds, msg.Subject == SubjectViewportZoom); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("viewport-processor"),
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// DecodeViewport accepts either a bare ViewportBounds or an Event envelope.
func DecodeViewport(data []byte) (*domain.ViewportBounds, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err == nil && len(ev.Data) > 0 {
		data = ev.Data
	}
	var b domain.ViewportBounds
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode viewport: %w", err)
	}
	if err := b.Center.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Close unsubscribes. The connection is owned by the caller.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
}

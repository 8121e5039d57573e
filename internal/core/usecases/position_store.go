package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/ports"
)

// Default state keys, matching what the web client used in localStorage.
const (
	DefaultPositionKey = "POS_KEY"
	DefaultTokenKey    = "TOKEN_KEY"
)

// PositionStore holds the user's last known position and session token.
// Every write goes straight to the persistence adapter so it survives a restart.
type PositionStore struct {
	state     ports.StateStore
	publisher ports.EventPublisher
	posKey    string
	tokenKey  string
}

// NewPositionStore creates a PositionStore. Empty keys fall back to the defaults.
func NewPositionStore(state ports.StateStore, publisher ports.EventPublisher, posKey, tokenKey string) *PositionStore {
	if posKey == "" {
		posKey = DefaultPositionKey
	}
	if tokenKey == "" {
		tokenKey = DefaultTokenKey
	}
	return &PositionStore{state: state, publisher: publisher, posKey: posKey, tokenKey: tokenKey}
}

// GetCurrentPosition returns the last recorded position, or
// domain.ErrPositionNotAvailable if none was ever written.
func (s *PositionStore) GetCurrentPosition(ctx context.Context) (domain.GeoPosition, error) {
	data, err := s.state.Get(ctx, s.posKey)
	if errors.Is(err, domain.ErrStateNotFound) {
		return domain.GeoPosition{}, domain.ErrPositionNotAvailable
	}
	if err != nil {
		return domain.GeoPosition{}, fmt.Errorf("read position: %w", err)
	}

	var p domain.GeoPosition
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.GeoPosition{}, fmt.Errorf("%w: stored value is not a position: %v", domain.ErrPositionNotAvailable, err)
	}
	return p, nil
}

// SetPosition overwrites the stored position.
func (s *PositionStore) SetPosition(ctx context.Context, p domain.GeoPosition) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	if err := s.state.Put(ctx, s.posKey, data); err != nil {
		return fmt.Errorf("persist position: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPosition(ctx, p); err != nil {
			slog.Warn("publish position failed", "error", err)
		}
	}
	return nil
}

// Token returns the session token, or "" when the user has none.
func (s *PositionStore) Token(ctx context.Context) (string, error) {
	data, err := s.state.Get(ctx, s.tokenKey)
	if errors.Is(err, domain.ErrStateNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(data), nil
}

// SetToken stores the session token. An empty token clears it.
func (s *PositionStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		if err := s.state.Delete(ctx, s.tokenKey); err != nil && !errors.Is(err, domain.ErrStateNotFound) {
			return fmt.Errorf("clear token: %w", err)
		}
		return nil
	}
	if err := s.state.Put(ctx, s.tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

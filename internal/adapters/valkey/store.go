package valkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/around-app/around/internal/core/domain"
)

// Store implements ports.StateStore using Valkey (Redis-compatible).
// Keys are namespaced so several clients can share one instance.
type Store struct {
	client valkey.Client
	prefix string
}

// New creates a new Valkey-backed state store.
func New(addr, prefix string) (*Store, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Store{client: client, prefix: prefix}, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return b, nil
}

// Put stores a value without expiry. Client state lives until overwritten.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	cmd := s.client.Do(ctx, s.client.B().Set().Key(s.key(key)).Value(string(value)).Build())
	if err := cmd.Error(); err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.client.Do(ctx, s.client.B().Del().Key(s.key(key)).Build()).AsInt64()
	if err != nil {
		return fmt.Errorf("valkey del %s: %w", key, err)
	}
	if n == 0 {
		return domain.ErrStateNotFound
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (s *Store) Close() {
	s.client.Close()
}

package ports

import "context"

// StateStore persists small client-side values across restarts.
// Get returns domain.ErrStateNotFound when the key was never written.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

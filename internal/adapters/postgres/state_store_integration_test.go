//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/around-app/around/internal/adapters/postgres"
	"github.com/around-app/around/internal/core/domain"
)

func TestStateStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("AROUND_TEST_DSN")
	if dsn == "" {
		t.Skip("AROUND_TEST_DSN not set")
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS client_state (
		key TEXT PRIMARY KEY, value BYTEA NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT now())`)
	require.NoError(t, err)

	store := postgres.NewStateStore(db)
	_ = store.Delete(ctx, "TOKEN_KEY")

	_, err = store.Get(ctx, "TOKEN_KEY")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	require.NoError(t, store.Put(ctx, "TOKEN_KEY", []byte("a")))
	require.NoError(t, store.Put(ctx, "TOKEN_KEY", []byte("b")))
	got, err := store.Get(ctx, "TOKEN_KEY")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))

	require.NoError(t, store.Delete(ctx, "TOKEN_KEY"))
	assert.ErrorIs(t, store.Delete(ctx, "TOKEN_KEY"), domain.ErrStateNotFound)
}

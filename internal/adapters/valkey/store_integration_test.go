//go:build integration

package valkey_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/around-app/around/internal/adapters/valkey"
	"github.com/around-app/around/internal/core/domain"
)

func TestStore_RoundTrip(t *testing.T) {
	addr := os.Getenv("AROUND_VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	store, err := valkey.New(addr, "around-test:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	_ = store.Delete(ctx, "POS_KEY")

	_, err = store.Get(ctx, "POS_KEY")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	require.NoError(t, store.Put(ctx, "POS_KEY", []byte(`{"lat":1,"lon":2}`)))
	got, err := store.Get(ctx, "POS_KEY")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":1,"lon":2}`, string(got))

	require.NoError(t, store.Delete(ctx, "POS_KEY"))
	assert.ErrorIs(t, store.Delete(ctx, "POS_KEY"), domain.ErrStateNotFound)
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/around-app/around/internal/core/domain"
)

func TestStore(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	buf := []byte("v1")
	require.NoError(t, s.Put(ctx, "k", buf))
	buf[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(got))

	require.NoError(t, s.Delete(ctx, "k"))
	assert.ErrorIs(t, s.Delete(ctx, "k"), domain.ErrStateNotFound)
}

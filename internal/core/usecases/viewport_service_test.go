package usecases_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/usecases"
)

var nyViewport = &domain.ViewportBounds{
	Center:    domain.GeoPosition{Lat: 40.7128, Lon: -74.0060},
	NorthEast: domain.GeoPosition{Lat: 40.75, Lon: -73.905},
}

func TestViewportService_DragEnd(t *testing.T) {
	backend := &mockBackend{}
	store := usecases.NewPositionStore(newMockState(), nil, "", "")
	ctrl := usecases.NewSearchController(backend, store, nil, 0)
	svc := usecases.NewViewportService(store, ctrl)
	ctx := context.Background()

	res, err := svc.DragEnd(ctx, nyViewport)
	require.NoError(t, err)
	assert.Equal(t, domain.SearchLoaded, res.State)

	pos, err := store.GetCurrentPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, nyViewport.Center, pos)

	require.Len(t, backend.Queries(), 1)
	q := backend.Queries()[0]
	assert.Equal(t, 40.7128, q.Lat)
	assert.Equal(t, -74.0060, q.Lon)
	assert.InDelta(t, 5.33, q.Radius, 0.1)
}

func TestViewportService_ZoomDoesNotMovePosition(t *testing.T) {
	backend := &mockBackend{}
	store := usecases.NewPositionStore(newMockState(), nil, "", "")
	ctrl := usecases.NewSearchController(backend, store, nil, 0)
	svc := usecases.NewViewportService(store, ctrl)
	ctx := context.Background()
	require.NoError(t, store.SetPosition(ctx, sanFrancisco))

	_, err := svc.ZoomChanged(ctx, nyViewport)
	require.NoError(t, err)

	pos, err := store.GetCurrentPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, sanFrancisco, pos)

	require.Len(t, backend.Queries(), 1)
	assert.Equal(t, 40.7128, backend.Queries()[0].Lat)
}

func TestViewportService_ZeroWidthFallsBackToDefault(t *testing.T) {
	backend := &mockBackend{}
	store := usecases.NewPositionStore(newMockState(), nil, "", "")
	ctrl := usecases.NewSearchController(backend, store, nil, 0)
	svc := usecases.NewViewportService(store, ctrl)

	bounds := &domain.ViewportBounds{
		Center:    domain.GeoPosition{Lat: 10, Lon: 10},
		NorthEast: domain.GeoPosition{Lat: 11, Lon: 10},
	}
	_, err := svc.ZoomChanged(context.Background(), bounds)
	require.NoError(t, err)

	require.Len(t, backend.Queries(), 1)
	assert.Equal(t, usecases.DefaultRadiusMiles, backend.Queries()[0].Radius)
}

func TestViewportService_NoBounds(t *testing.T) {
	backend := &mockBackend{}
	store := usecases.NewPositionStore(newMockState(), nil, "", "")
	svc := usecases.NewViewportService(store, usecases.NewSearchController(backend, store, nil, 0))

	_, err := svc.DragEnd(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrBoundsUnavailable)
	_, err = svc.ZoomChanged(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrBoundsUnavailable)
	assert.Empty(t, backend.Queries())
}

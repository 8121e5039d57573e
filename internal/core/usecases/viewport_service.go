package usecases

import (
	"context"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/pkg/geospatial"
	"github.com/around-app/around/internal/pkg/metrics"
)

// ViewportService reacts to the map settling after a drag or a zoom.
// Continuous move events are never fed in here.
type ViewportService struct {
	positions *PositionStore
	search    *SearchController
}

// NewViewportService creates a ViewportService.
func NewViewportService(positions *PositionStore, search *SearchController) *ViewportService {
	return &ViewportService{positions: positions, search: search}
}

// DragEnd records the new map center as the user's position and searches the
// visible area.
func (s *ViewportService) DragEnd(ctx context.Context, bounds *domain.ViewportBounds) (domain.SearchResult, error) {
	radius, err := geospatial.RadiusMiles(bounds)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if err := s.positions.SetPosition(ctx, bounds.Center); err != nil {
		return domain.SearchResult{}, err
	}
	return s.searchAround(ctx, bounds.Center, radius), nil
}

// ZoomChanged searches the visible area without touching the stored position.
func (s *ViewportService) ZoomChanged(ctx context.Context, bounds *domain.ViewportBounds) (domain.SearchResult, error) {
	radius, err := geospatial.RadiusMiles(bounds)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if err := bounds.Center.Validate(); err != nil {
		return domain.SearchResult{}, err
	}
	return s.searchAround(ctx, bounds.Center, radius), nil
}

func (s *ViewportService) searchAround(ctx context.Context, center domain.GeoPosition, radius float64) domain.SearchResult {
	metrics.ViewportRadius.Observe(radius)
	return s.search.Search(ctx, SearchRequest{Position: &center, Radius: radius})
}

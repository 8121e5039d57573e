package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/ports"
	"github.com/around-app/around/internal/pkg/metrics"
)

// GeolocationService acquires the user's position on start-up and feeds it
// into the position store and the nearby search.
type GeolocationService struct {
	locator   ports.Geolocator
	positions *PositionStore
	search    *SearchController
	publisher ports.EventPublisher
	opts      domain.GeoOptions

	mu     sync.Mutex
	status domain.GeolocationStatus
	wg     sync.WaitGroup
}

// NewGeolocationService creates a GeolocationService. A nil locator means the
// runtime has no geolocation capability.
func NewGeolocationService(
	locator ports.Geolocator,
	positions *PositionStore,
	search *SearchController,
	publisher ports.EventPublisher,
	opts domain.GeoOptions,
) *GeolocationService {
	return &GeolocationService{
		locator:   locator,
		positions: positions,
		search:    search,
		publisher: publisher,
		opts:      opts,
	}
}

// Start requests a one-shot fix in the background and returns immediately.
// Without a locator it records the unavailable state and returns
// domain.ErrGeolocationUnavailable; no search is issued in that case.
func (s *GeolocationService) Start(ctx context.Context) error {
	if s.locator == nil {
		metrics.GeolocationRequests.WithLabelValues("unavailable").Inc()
		s.setStatus(ctx, domain.GeolocationStatus{Error: domain.MsgGeolocationUnavailable})
		return domain.ErrGeolocationUnavailable
	}

	s.setStatus(ctx, domain.GeolocationStatus{Loading: true})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.locate(ctx)
	}()
	return nil
}

// Wait blocks until the outstanding fix, and the search it triggered, finish.
func (s *GeolocationService) Wait() {
	s.wg.Wait()
}

// Status returns the current acquisition state.
func (s *GeolocationService) Status() domain.GeolocationStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *GeolocationService) locate(ctx context.Context) {
	fixCtx := ctx
	if s.opts.TimeoutMs > 0 {
		var cancel context.CancelFunc
		fixCtx, cancel = context.WithTimeout(ctx, time.Duration(s.opts.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	pos, err := s.locator.CurrentPosition(fixCtx, s.opts)
	if err == nil {
		err = pos.Validate()
	}
	if err != nil {
		metrics.GeolocationRequests.WithLabelValues("failed").Inc()
		slog.Warn("geolocation fix failed", "error", err)
		s.setStatus(ctx, domain.GeolocationStatus{Error: domain.MsgGeolocationFailed})
		return
	}

	metrics.GeolocationRequests.WithLabelValues("ok").Inc()
	slog.Info("geolocation fix", "lat", pos.Lat, "lon", pos.Lon)
	if err := s.positions.SetPosition(ctx, pos); err != nil {
		slog.Error("store position failed", "error", err)
	}
	s.setStatus(ctx, domain.GeolocationStatus{Position: &pos})

	if s.search != nil {
		s.search.Search(ctx, SearchRequest{Position: &pos})
	}
}

func (s *GeolocationService) setStatus(ctx context.Context, st domain.GeolocationStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishGeolocation(ctx, st); err != nil {
			slog.Warn("publish geolocation status failed", "error", err)
		}
	}
}

package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/ports"
	"github.com/around-app/around/internal/pkg/metrics"
)

// DefaultRadiusMiles is used when a search is issued without a usable radius.
const DefaultRadiusMiles = 20.0

// SearchRequest optionally overrides the stored position and the default radius.
type SearchRequest struct {
	Position *domain.GeoPosition
	Radius   float64
}

// SearchController turns a position into a backend query and owns the
// lifecycle of the displayed result.
//
// Each call to Search takes a sequence number. Only the response of the most
// recently issued search is applied; older responses are dropped, and their
// requests are cancelled as soon as a newer search starts. Responses are
// therefore not applied in completion order: a slow response to an older
// search never replaces the result of a newer one.
//
// Events are published outside mu, so a slow publisher never blocks Result.
type SearchController struct {
	backend       ports.PostBackend
	positions     *PositionStore
	publisher     ports.EventPublisher
	defaultRadius float64

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	result domain.SearchResult

	// pubMu orders publishes; lastPub is the newest event sent.
	pubMu   sync.Mutex
	lastPub domain.SearchResult
}

// NewSearchController creates a SearchController. A non-positive defaultRadius
// falls back to DefaultRadiusMiles.
func NewSearchController(backend ports.PostBackend, positions *PositionStore, publisher ports.EventPublisher, defaultRadius float64) *SearchController {
	if defaultRadius <= 0 {
		defaultRadius = DefaultRadiusMiles
	}
	return &SearchController{
		backend:       backend,
		positions:     positions,
		publisher:     publisher,
		defaultRadius: defaultRadius,
		result:        domain.SearchResult{State: domain.SearchIdle, UpdatedAt: time.Now()},
	}
}

// Result returns the state the presentation layer should display.
func (c *SearchController) Result() domain.SearchResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Search runs one nearby search and blocks until it settles. The state moves to
// Loading before the request is sent. The returned value is this call's own
// outcome; when a newer search was started meanwhile it is not applied.
func (c *SearchController) Search(ctx context.Context, req SearchRequest) domain.SearchResult {
	radius := req.Radius
	if radius <= 0 {
		radius = c.defaultRadius
	}

	var posErr error
	var pos domain.GeoPosition
	if req.Position != nil {
		pos = *req.Position
	} else {
		pos, posErr = c.positions.GetCurrentPosition(ctx)
	}
	q := domain.SearchQuery{Lat: pos.Lat, Lon: pos.Lon, Radius: radius}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loading := c.begin(q, cancel)
	c.publish(ctx, loading)
	seq := loading.Seq

	var posts []domain.Post
	err := posErr
	if err == nil {
		posts, err = c.fetch(reqCtx, q)
	}

	final := settle(seq, q, posts, err)
	if !c.apply(final) {
		metrics.SearchStaleDiscarded.Inc()
		slog.Debug("dropping stale search response", "seq", seq)
		return final
	}
	c.publish(ctx, final)

	metrics.SearchRequests.WithLabelValues(string(final.State)).Inc()
	if final.State == domain.SearchError {
		slog.Warn("nearby search failed", "seq", seq, "error", err)
	} else {
		slog.Info("nearby search loaded", "seq", seq, "posts", len(final.Posts), "radius", radius)
	}
	return final
}

// begin cancels the in-flight request, takes the next sequence number and
// returns the Loading state.
func (c *SearchController) begin(q domain.SearchQuery, cancel context.CancelFunc) domain.SearchResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	c.cancel = cancel
	c.result = domain.SearchResult{
		State:     domain.SearchLoading,
		Seq:       c.seq,
		Query:     q,
		UpdatedAt: time.Now(),
	}
	return c.result
}

// apply stores r unless a newer search has started.
func (c *SearchController) apply(r domain.SearchResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Seq != c.seq {
		return false
	}
	c.cancel = nil
	c.result = r
	return true
}

func (c *SearchController) fetch(ctx context.Context, q domain.SearchQuery) (posts []domain.Post, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrMalformedResponse, r)
		}
	}()

	token, err := c.positions.Token(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	posts, err = c.backend.Search(ctx, q, token)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}
	return posts, nil
}

// publish sends r unless an event that supersedes it was already sent:
// a newer sequence, or the settled state of the same sequence.
func (c *SearchController) publish(ctx context.Context, r domain.SearchResult) {
	if c.publisher == nil {
		return
	}
	c.pubMu.Lock()
	defer c.pubMu.Unlock()
	if r.Seq < c.lastPub.Seq || (r.Seq == c.lastPub.Seq && r.State == domain.SearchLoading) {
		return
	}
	c.lastPub = r
	if err := c.publisher.PublishSearchResult(ctx, r); err != nil {
		slog.Warn("publish search result failed", "seq", r.Seq, "error", err)
	}
}

// settle maps a backend outcome onto the displayed state. Errors never carry
// posts from earlier searches.
func settle(seq uint64, q domain.SearchQuery, posts []domain.Post, err error) domain.SearchResult {
	r := domain.SearchResult{Seq: seq, Query: q, UpdatedAt: time.Now()}
	if err == nil {
		r.State = domain.SearchLoaded
		r.Posts = posts
		if r.Posts == nil {
			r.Posts = []domain.Post{}
		}
		return r
	}

	r.State = domain.SearchError
	var remote *domain.RemoteError
	switch {
	case errors.As(err, &remote) && remote.Message != "":
		r.Error = remote.Message
	case errors.Is(err, domain.ErrMalformedResponse):
		r.Error = domain.MsgSearchMalformed
	case errors.Is(err, domain.ErrPositionNotAvailable):
		r.Error = "Failed to load posts: no position available"
	default:
		r.Error = domain.MsgSearchNetwork
	}
	return r
}

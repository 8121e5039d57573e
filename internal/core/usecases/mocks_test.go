package usecases_test

import (
	"context"
	"sync"

	"github.com/around-app/around/internal/core/domain"
)

// --- Mock StateStore ---

type mockState struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	putErr error
}

func newMockState() *mockState {
	return &mockState{data: make(map[string][]byte)}
}

func (m *mockState) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return v, nil
}

func (m *mockState) Put(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func (m *mockState) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return domain.ErrStateNotFound
	}
	delete(m.data, key)
	return nil
}

// --- Mock PostBackend ---

type mockBackend struct {
	searchFn     func(ctx context.Context, q domain.SearchQuery, token string) ([]domain.Post, error)
	createPostFn func(ctx context.Context, p domain.NewPost, token string) error

	mu      sync.Mutex
	queries []domain.SearchQuery
	tokens  []string
}

func (m *mockBackend) Search(ctx context.Context, q domain.SearchQuery, token string) ([]domain.Post, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, q, token)
	}
	return nil, nil
}

func (m *mockBackend) CreatePost(ctx context.Context, p domain.NewPost, token string) error {
	if m.createPostFn != nil {
		return m.createPostFn(ctx, p, token)
	}
	return nil
}

func (m *mockBackend) Queries() []domain.SearchQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SearchQuery(nil), m.queries...)
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	results   []domain.SearchResult
	positions []domain.GeoPosition
	geo       []domain.GeolocationStatus
}

func (m *mockPublisher) PublishSearchResult(ctx context.Context, r domain.SearchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *mockPublisher) PublishPosition(ctx context.Context, p domain.GeoPosition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positions = append(m.positions, p)
	return nil
}

func (m *mockPublisher) PublishGeolocation(ctx context.Context, s domain.GeolocationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.geo = append(m.geo, s)
	return nil
}

func (m *mockPublisher) States() []domain.SearchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SearchState, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r.State)
	}
	return out
}

// --- Mock Geolocator ---

type mockLocator struct {
	currentPositionFn func(ctx context.Context, opts domain.GeoOptions) (domain.GeoPosition, error)
}

func (m *mockLocator) CurrentPosition(ctx context.Context, opts domain.GeoOptions) (domain.GeoPosition, error) {
	if m.currentPositionFn != nil {
		return m.currentPositionFn(ctx, opts)
	}
	return domain.GeoPosition{}, nil
}

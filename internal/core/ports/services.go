package ports

import (
	"context"

	"github.com/around-app/around/internal/core/domain"
)

// PostBackend is the remote around API.
type PostBackend interface {
	// Search returns the posts around q. Non-2xx responses come back as
	// *domain.RemoteError, undecodable bodies wrap domain.ErrMalformedResponse.
	Search(ctx context.Context, q domain.SearchQuery, token string) ([]domain.Post, error)
	CreatePost(ctx context.Context, p domain.NewPost, token string) error
}

// Geolocator answers a one-shot "where am I" request.
type Geolocator interface {
	CurrentPosition(ctx context.Context, opts domain.GeoOptions) (domain.GeoPosition, error)
}

// EventPublisher pushes state changes to the presentation layer.
type EventPublisher interface {
	PublishSearchResult(ctx context.Context, r domain.SearchResult) error
	PublishPosition(ctx context.Context, p domain.GeoPosition) error
	PublishGeolocation(ctx context.Context, s domain.GeolocationStatus) error
}

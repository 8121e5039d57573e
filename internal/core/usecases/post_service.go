package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/ports"
	"github.com/around-app/around/internal/pkg/authtoken"
)

// ErrEmptyMessage is returned when a post has no text.
var ErrEmptyMessage = errors.New("post message is required")

// PostService publishes new posts and refreshes the nearby results afterwards.
type PostService struct {
	backend   ports.PostBackend
	positions *PositionStore
	search    *SearchController
}

// NewPostService creates a PostService.
func NewPostService(backend ports.PostBackend, positions *PositionStore, search *SearchController) *PostService {
	return &PostService{backend: backend, positions: positions, search: search}
}

// Create sends p to the backend. The author comes from the session token when
// it is a JWT with a username claim, otherwise from p.User. A zero location is
// replaced by the stored position.
func (s *PostService) Create(ctx context.Context, p domain.NewPost) (domain.SearchResult, error) {
	p.Message = strings.TrimSpace(p.Message)
	if p.Message == "" {
		return domain.SearchResult{}, ErrEmptyMessage
	}

	token, err := s.positions.Token(ctx)
	if err != nil {
		return domain.SearchResult{}, err
	}
	if name, err := authtoken.Username(token); err == nil {
		p.User = name
	}

	if p.Location == (domain.GeoPosition{}) {
		pos, err := s.positions.GetCurrentPosition(ctx)
		if err != nil {
			return domain.SearchResult{}, fmt.Errorf("resolve post location: %w", err)
		}
		p.Location = pos
	}
	if err := p.Location.Validate(); err != nil {
		return domain.SearchResult{}, err
	}

	if err := s.backend.CreatePost(ctx, p, token); err != nil {
		return domain.SearchResult{}, fmt.Errorf("create post: %w", err)
	}
	slog.Info("post created", "user", p.User, "lat", p.Location.Lat, "lon", p.Location.Lon)

	return s.search.Search(ctx, SearchRequest{}), nil
}

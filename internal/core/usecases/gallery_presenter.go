package usecases

import "github.com/around-app/around/internal/core/domain"

const (
	thumbnailWidth  = 400
	thumbnailHeight = 300
)

// GalleryPresenter builds the "Posts" tab content from the geolocation and
// search state.
type GalleryPresenter struct {
	geo    *GeolocationService
	search *SearchController
}

// NewGalleryPresenter creates a GalleryPresenter.
func NewGalleryPresenter(geo *GeolocationService, search *SearchController) *GalleryPresenter {
	return &GalleryPresenter{geo: geo, search: search}
}

// Panel returns what the gallery tab should show right now.
func (p *GalleryPresenter) Panel() domain.GalleryPanel {
	return BuildPanel(p.geo.Status(), p.search.Result())
}

// BuildPanel applies the display precedence: error, then the geolocation
// spinner, then the posts spinner, then the gallery. A geolocation error only
// shows until the first search runs.
func BuildPanel(geo domain.GeolocationStatus, result domain.SearchResult) domain.GalleryPanel {
	switch {
	case geo.Error != "" && result.State == domain.SearchIdle:
		return domain.GalleryPanel{Kind: domain.PanelError, Message: geo.Error}
	case result.State == domain.SearchError:
		return domain.GalleryPanel{Kind: domain.PanelError, Message: result.Error}
	case geo.Loading:
		return domain.GalleryPanel{Kind: domain.PanelSpinner, Message: "Loading geo location ..."}
	case result.State == domain.SearchLoading:
		return domain.GalleryPanel{Kind: domain.PanelSpinner, Message: "Loading posts ..."}
	case result.State == domain.SearchLoaded:
		images := make([]domain.GalleryImage, 0, len(result.Posts))
		for _, post := range result.Posts {
			images = append(images, domain.GalleryImage{
				User:            post.User,
				Src:             post.URL,
				Thumbnail:       post.URL,
				ThumbnailWidth:  thumbnailWidth,
				ThumbnailHeight: thumbnailHeight,
				Caption:         post.Message,
			})
		}
		return domain.GalleryPanel{Kind: domain.PanelGallery, Images: images}
	}
	return domain.GalleryPanel{Kind: domain.PanelEmpty}
}

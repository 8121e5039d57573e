package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/usecases"
)

func TestBuildPanel(t *testing.T) {
	idle := domain.SearchResult{State: domain.SearchIdle}
	loading := domain.SearchResult{State: domain.SearchLoading}

	tests := []struct {
		name    string
		geo     domain.GeolocationStatus
		result  domain.SearchResult
		kind    domain.PanelKind
		message string
	}{
		{"nothing yet", domain.GeolocationStatus{}, idle, domain.PanelEmpty, ""},
		{"geo error", domain.GeolocationStatus{Error: domain.MsgGeolocationFailed}, idle, domain.PanelError, domain.MsgGeolocationFailed},
		{"search error", domain.GeolocationStatus{}, domain.SearchResult{State: domain.SearchError, Error: "server error"}, domain.PanelError, "server error"},
		{"locating", domain.GeolocationStatus{Loading: true}, idle, domain.PanelSpinner, "Loading geo location ..."},
		{"loading posts", domain.GeolocationStatus{}, loading, domain.PanelSpinner, "Loading posts ..."},
		{"geo error then manual search", domain.GeolocationStatus{Error: domain.MsgGeolocationFailed}, loading, domain.PanelSpinner, "Loading posts ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := usecases.BuildPanel(tt.geo, tt.result)
			assert.Equal(t, tt.kind, panel.Kind)
			assert.Equal(t, tt.message, panel.Message)
		})
	}
}

func TestBuildPanel_Gallery(t *testing.T) {
	result := domain.SearchResult{State: domain.SearchLoaded, Posts: []domain.Post{
		{User: "alice", URL: "https://img/a.jpg", Message: "sunset"},
		{User: "bob", URL: "https://img/b.jpg", Message: "bridge"},
	}}

	panel := usecases.BuildPanel(domain.GeolocationStatus{}, result)

	assert.Equal(t, domain.PanelGallery, panel.Kind)
	require.Len(t, panel.Images, 2)
	assert.Equal(t, domain.GalleryImage{
		User:            "alice",
		Src:             "https://img/a.jpg",
		Thumbnail:       "https://img/a.jpg",
		ThumbnailWidth:  400,
		ThumbnailHeight: 300,
		Caption:         "sunset",
	}, panel.Images[0])
}

package domain

// PanelKind says what the gallery panel should render.
type PanelKind string

const (
	PanelEmpty   PanelKind = "empty"
	PanelError   PanelKind = "error"
	PanelSpinner PanelKind = "spinner"
	PanelGallery PanelKind = "gallery"
)

// GalleryImage is one tile of the photo gallery.
type GalleryImage struct {
	User            string `json:"user"`
	Src             string `json:"src"`
	Thumbnail       string `json:"thumbnail"`
	ThumbnailWidth  int    `json:"thumbnailWidth"`
	ThumbnailHeight int    `json:"thumbnailHeight"`
	Caption         string `json:"caption"`
}

// GalleryPanel is the content of the "Posts" tab.
type GalleryPanel struct {
	Kind    PanelKind      `json:"kind"`
	Message string         `json:"message,omitempty"`
	Images  []GalleryImage `json:"images,omitempty"`
}

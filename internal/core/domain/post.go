package domain

import (
	"fmt"
	"time"
)

// Post is a photo post returned by the backend search.
type Post struct {
	User     string      `json:"user"`
	URL      string      `json:"url"`
	Message  string      `json:"message"`
	Location GeoPosition `json:"location"`
}

// SearchQuery is the wire-level query sent to the backend.
type SearchQuery struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Radius float64 `json:"range"`
}

// NewPost is the payload for creating a post.
type NewPost struct {
	User     string      `json:"user"`
	Message  string      `json:"message"`
	URL      string      `json:"url,omitempty"`
	Location GeoPosition `json:"location"`
}

// SearchState enumerates the tri-state result plus the initial idle state.
type SearchState string

const (
	SearchIdle    SearchState = "idle"
	SearchLoading SearchState = "loading"
	SearchError   SearchState = "error"
	SearchLoaded  SearchState = "loaded"
)

// SearchResult is the presentation-facing state of the nearby search.
// Exactly one of Error/Posts is meaningful, depending on State.
type SearchResult struct {
	State     SearchState `json:"state"`
	Seq       uint64      `json:"seq"`
	Query     SearchQuery `json:"query"`
	Error     string      `json:"error,omitempty"`
	Posts     []Post      `json:"posts"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Err returns nil unless the search failed, in which case the error wraps
// ErrSearchFailed and carries the displayed message.
func (r SearchResult) Err() error {
	if r.State != SearchError {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSearchFailed, r.Error)
}

// GeolocationStatus is the presentation-facing state of position acquisition.
type GeolocationStatus struct {
	Loading  bool         `json:"loading"`
	Error    string       `json:"error,omitempty"`
	Position *GeoPosition `json:"position,omitempty"`
}

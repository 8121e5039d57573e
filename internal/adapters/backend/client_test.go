package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/around-app/around/internal/core/domain"
)

func TestSearch_Request(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"user":"alice","url":"https://img/a.jpg","message":"hi","location":{"lat":37.77,"lon":-122.41}}]`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "Bearer")
	posts, err := c.Search(context.Background(), domain.SearchQuery{Lat: 37.7749, Lon: -122.4194, Radius: 20}, "tok")
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/search", got.URL.Path)
	assert.Equal(t, "37.7749", got.URL.Query().Get("lat"))
	assert.Equal(t, "-122.4194", got.URL.Query().Get("lon"))
	assert.Equal(t, "20", got.URL.Query().Get("range"))
	assert.Equal(t, "Bearer tok", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))

	require.Len(t, posts, 1)
	assert.Equal(t, domain.Post{
		User:     "alice",
		URL:      "https://img/a.jpg",
		Message:  "hi",
		Location: domain.GeoPosition{Lat: 37.77, Lon: -122.41},
	}, posts[0])
}

func TestSearch_NoTokenNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	posts, err := New(srv.URL, "Bearer").Search(context.Background(), domain.SearchQuery{Radius: 20}, "")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestSearch_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	posts, err := New(srv.URL, "Bearer").Search(context.Background(), domain.SearchQuery{Radius: 20}, "t")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"plain text", 500, "server error\n", "server error"},
		{"json message", 401, `{"message":"token expired"}`, "token expired"},
		{"json error", 400, `{"error":"bad range"}`, "bad range"},
		{"empty", 503, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL, "Bearer").Search(context.Background(), domain.SearchQuery{Radius: 20}, "t")

			var remote *domain.RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, tt.status, remote.StatusCode)
			assert.Equal(t, tt.message, remote.Message)
		})
	}
}

func TestSearch_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not":"a list"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "Bearer").Search(context.Background(), domain.SearchQuery{Radius: 20}, "t")
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestSearch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(srv.URL, "Bearer", WithTimeout(50*time.Millisecond)).
		Search(context.Background(), domain.SearchQuery{Radius: 20}, "t")
	require.Error(t, err)

	var remote *domain.RemoteError
	assert.False(t, errors.As(err, &remote))
}

func TestCreatePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/post", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"user":"alice","message":"hi","location":{"lat":1,"lon":2}}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := New(srv.URL, "Bearer").CreatePost(context.Background(), domain.NewPost{
		User:     "alice",
		Message:  "hi",
		Location: domain.GeoPosition{Lat: 1, Lon: 2},
	}, "tok")
	require.NoError(t, err)
}

func TestSearchParams(t *testing.T) {
	v := SearchParams(domain.SearchQuery{Lat: 40.7128, Lon: -74.006, Radius: 5.293})
	assert.Equal(t, "lat=40.7128&lon=-74.006&range=5.293", v.Encode())
}

func TestAuthorizationHeader(t *testing.T) {
	assert.Equal(t, "Bearer abc", AuthorizationHeader("Bearer", "abc"))
	assert.Equal(t, "abc", AuthorizationHeader("", "abc"))
}

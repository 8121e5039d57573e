package http_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/around-app/around/internal/core/domain"
)

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (f *fixture) graphql(t *testing.T, query string) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)
	status, raw, _ := f.do(t, "POST", "/graphql", string(body))
	require.Equal(t, 200, status, string(raw))

	var resp gqlResponse
	decode(t, raw, &resp)
	return resp
}

func TestGraphQL_PositionNullWhenUnknown(t *testing.T) {
	f := setup(t)

	resp := f.graphql(t, `{ position { lat lon } }`)
	require.Empty(t, resp.Errors)
	assert.Equal(t, "null", string(resp.Data["position"]))
}

func TestGraphQL_SearchMutation(t *testing.T) {
	f := setup(t)
	f.backend.searchFn = func(ctx context.Context, q domain.SearchQuery, token string) ([]domain.Post, error) {
		return []domain.Post{{User: "alice", URL: "https://img/a.jpg", Message: "hi", Location: domain.GeoPosition{Lat: 1, Lon: 2}}}, nil
	}

	resp := f.graphql(t, `mutation { search(lat: 37.7749, lon: -122.4194) { state seq query { range } posts { user location { lat } } } }`)
	require.Empty(t, resp.Errors)

	var res struct {
		State string `json:"state"`
		Seq   int    `json:"seq"`
		Query struct {
			Range float64 `json:"range"`
		} `json:"query"`
		Posts []struct {
			User string `json:"user"`
		} `json:"posts"`
	}
	decode(t, resp.Data["search"], &res)
	assert.Equal(t, "loaded", res.State)
	assert.Equal(t, 1, res.Seq)
	assert.Equal(t, 20.0, res.Query.Range)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, "alice", res.Posts[0].User)
}

func TestGraphQL_SetPositionAndGallery(t *testing.T) {
	f := setup(t)

	resp := f.graphql(t, `mutation { setPosition(lat: 48.85, lon: 2.35) { lat lon } }`)
	require.Empty(t, resp.Errors)

	resp = f.graphql(t, `{ position { lat } gallery { kind } searchResult { state } }`)
	require.Empty(t, resp.Errors)

	var gallery struct {
		Kind string `json:"kind"`
	}
	decode(t, resp.Data["gallery"], &gallery)
	assert.Equal(t, "empty", gallery.Kind)

	var pos domain.GeoPosition
	decode(t, resp.Data["position"], &pos)
	assert.Equal(t, 48.85, pos.Lat)
}

func TestGraphQL_ViewportRejectsInvalid(t *testing.T) {
	f := setup(t)

	resp := f.graphql(t, `mutation { viewportDragEnd(centerLat: 95, centerLon: 0, neLat: 0, neLon: 1) { state } }`)
	assert.NotEmpty(t, resp.Errors, "out-of-range center must be rejected")
}

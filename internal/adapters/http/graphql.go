package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPositionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPosition",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"user":     &graphql.Field{Type: graphql.String},
			"url":      &graphql.Field{Type: graphql.String},
			"message":  &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPositionType},
		},
	})

	searchQueryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchQuery",
		Fields: graphql.Fields{
			"lat":   &graphql.Field{Type: graphql.Float},
			"lon":   &graphql.Field{Type: graphql.Float},
			"range": &graphql.Field{Type: graphql.Float},
		},
	})

	searchResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchResult",
		Fields: graphql.Fields{
			"state":      &graphql.Field{Type: graphql.String},
			"seq":        &graphql.Field{Type: graphql.Int},
			"query":      &graphql.Field{Type: searchQueryType},
			"error":      &graphql.Field{Type: graphql.String},
			"posts":      &graphql.Field{Type: graphql.NewList(postType)},
			"updated_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	geolocationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeolocationStatus",
		Fields: graphql.Fields{
			"loading":  &graphql.Field{Type: graphql.Boolean},
			"error":    &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: geoPositionType},
		},
	})

	galleryImageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GalleryImage",
		Fields: graphql.Fields{
			"user":            &graphql.Field{Type: graphql.String},
			"src":             &graphql.Field{Type: graphql.String},
			"thumbnail":       &graphql.Field{Type: graphql.String},
			"thumbnailWidth":  &graphql.Field{Type: graphql.Int},
			"thumbnailHeight": &graphql.Field{Type: graphql.Int},
			"caption":         &graphql.Field{Type: graphql.String},
		},
	})

	galleryPanelType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GalleryPanel",
		Fields: graphql.Fields{
			"kind":    &graphql.Field{Type: graphql.String},
			"message": &graphql.Field{Type: graphql.String},
			"images":  &graphql.Field{Type: graphql.NewList(galleryImageType)},
		},
	})

	viewportArgs := graphql.FieldConfigArgument{
		"centerLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"centerLon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"neLat":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"neLon":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	}
	boundsFromArgs := func(args map[string]interface{}) *domain.ViewportBounds {
		return &domain.ViewportBounds{
			Center:    domain.GeoPosition{Lat: args["centerLat"].(float64), Lon: args["centerLon"].(float64)},
			NorthEast: domain.GeoPosition{Lat: args["neLat"].(float64), Lon: args["neLon"].(float64)},
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"position": &graphql.Field{
				Type:        geoPositionType,
				Description: "Last known position, null when none is recorded",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pos, err := deps.Positions.GetCurrentPosition(p.Context)
					if errors.Is(err, domain.ErrPositionNotAvailable) {
						return nil, nil
					}
					return pos, err
				},
			},
			"searchResult": &graphql.Field{
				Type:        searchResultType,
				Description: "Currently displayed nearby search state",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Search.Result(), nil
				},
			},
			"geolocation": &graphql.Field{
				Type:        geolocationType,
				Description: "State of position acquisition",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geolocation.Status(), nil
				},
			},
			"gallery": &graphql.Field{
				Type:        galleryPanelType,
				Description: "Content of the Posts tab",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Gallery.Panel(), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"setPosition": &graphql.Field{
				Type:        geoPositionType,
				Description: "Overwrite the stored position",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pos := domain.GeoPosition{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					if err := deps.Positions.SetPosition(p.Context, pos); err != nil {
						return nil, err
					}
					return pos, nil
				},
			},
			"search": &graphql.Field{
				Type:        searchResultType,
				Description: "Run a nearby search; position defaults to the stored one",
				Args: graphql.FieldConfigArgument{
					"lat":   &graphql.ArgumentConfig{Type: graphql.Float},
					"lon":   &graphql.ArgumentConfig{Type: graphql.Float},
					"range": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var req usecases.SearchRequest
					if r, ok := p.Args["range"].(float64); ok {
						req.Radius = r
					}
					lat, hasLat := p.Args["lat"].(float64)
					lon, hasLon := p.Args["lon"].(float64)
					if hasLat && hasLon {
						pos := domain.GeoPosition{Lat: lat, Lon: lon}
						if err := pos.Validate(); err != nil {
							return nil, err
						}
						req.Position = &pos
					}
					return deps.Search.Search(p.Context, req), nil
				},
			},
			"viewportDragEnd": &graphql.Field{
				Type:        searchResultType,
				Description: "Map drag finished: move the position and search the visible area",
				Args:        viewportArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Viewport.DragEnd(p.Context, boundsFromArgs(p.Args))
				},
			},
			"viewportZoom": &graphql.Field{
				Type:        searchResultType,
				Description: "Map zoom finished: search the visible area",
				Args:        viewportArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Viewport.ZoomChanged(p.Context, boundsFromArgs(p.Args))
				},
			},
			"createPost": &graphql.Field{
				Type:        searchResultType,
				Description: "Publish a post at the stored position and reload nearby posts",
				Args: graphql.FieldConfigArgument{
					"message": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"user":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					post := domain.NewPost{Message: p.Args["message"].(string)}
					if u, ok := p.Args["user"].(string); ok {
						post.User = u
					}
					return deps.Posts.Create(p.Context, post)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}

package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/usecases"
)

// GetPositionHandler returns the last known position.
func GetPositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pos, err := deps.Positions.GetCurrentPosition(c.UserContext())
		if errors.Is(err, domain.ErrPositionNotAvailable) {
			return errNotFound(c, "no position recorded yet")
		}
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(pos)
	}
}

// PutPositionHandler overwrites the stored position.
func PutPositionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pos domain.GeoPosition
		if err := c.BodyParser(&pos); err != nil {
			return errBadRequest(c, "body must be {\"lat\":..,\"lon\":..}")
		}
		if err := deps.Positions.SetPosition(c.UserContext(), pos); err != nil {
			return fromDomain(c, err)
		}
		return c.JSON(pos)
	}
}

type tokenRequest struct {
	Token string `json:"token"`
}

// PutTokenHandler stores the session token. An empty token signs out.
func PutTokenHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "body must be {\"token\":\"...\"}")
		}
		if err := deps.Positions.SetToken(c.UserContext(), req.Token); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GeolocationStatusHandler reports the state of position acquisition.
func GeolocationStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Geolocation.Status())
	}
}

// RefreshGeolocationHandler requests a new fix. The fix outlives the request.
func RefreshGeolocationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Geolocation.Start(context.WithoutCancel(c.UserContext())); err != nil {
			return fromDomain(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(deps.Geolocation.Status())
	}
}

type searchRequest struct {
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Range float64  `json:"range"`
}

// SearchHandler runs a nearby search and returns its outcome. An Error
// outcome is still a 200: it is a displayable state, not a failed call.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req searchRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid search body")
			}
		}
		if (req.Lat == nil) != (req.Lon == nil) {
			return errBadRequest(c, "lat and lon must be given together")
		}
		if req.Range < 0 {
			return errBadRequest(c, "range must not be negative")
		}

		sr := usecases.SearchRequest{Radius: req.Range}
		if req.Lat != nil {
			pos := domain.GeoPosition{Lat: *req.Lat, Lon: *req.Lon}
			if err := pos.Validate(); err != nil {
				return errBadRequest(c, err.Error())
			}
			sr.Position = &pos
		}

		return c.JSON(deps.Search.Search(c.UserContext(), sr))
	}
}

// SearchResultHandler returns the currently displayed search state.
func SearchResultHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Search.Result())
	}
}

// ViewportHandler handles drag-end (zoom=false) and zoom-end events.
func ViewportHandler(deps *Dependencies, zoom bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var bounds *domain.ViewportBounds
		if len(c.Body()) > 0 {
			bounds = &domain.ViewportBounds{}
			if err := c.BodyParser(bounds); err != nil {
				return errBadRequest(c, "body must be {\"center\":{..},\"north_east\":{..}}")
			}
		}

		var (
			res domain.SearchResult
			err error
		)
		if zoom {
			res, err = deps.Viewport.ZoomChanged(c.UserContext(), bounds)
		} else {
			res, err = deps.Viewport.DragEnd(c.UserContext(), bounds)
		}
		if err != nil {
			return fromDomain(c, err)
		}
		return c.JSON(res)
	}
}

// GalleryHandler returns the "Posts" tab content. Images of a gallery panel
// are paged with offset/limit; other panels have a total of zero.
func GalleryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		panel := deps.Gallery.Panel()

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 100)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 100
		}

		total := len(panel.Images)
		if offset >= total {
			panel.Images = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			panel.Images = panel.Images[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: panel, Pagination: pg})
	}
}

// CreatePostHandler publishes a post and returns the refreshed search.
func CreatePostHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p domain.NewPost
		if err := c.BodyParser(&p); err != nil {
			return errBadRequest(c, "invalid post body")
		}
		res, err := deps.Posts.Create(c.UserContext(), p)
		if err != nil {
			return fromDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

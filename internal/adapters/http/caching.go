package http

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses. Client state changes
// under the caller's feet, so state endpoints are never stored; a weak ETag
// lets polling UIs skip unchanged bodies.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Method() != fiber.MethodGet {
			return nil
		}

		path := c.Path()
		if c.GetRespHeader(fiber.HeaderCacheControl) == "" {
			switch {
			case path == "/v1/health" || path == "/v1/ready":
				c.Set(fiber.HeaderCacheControl, "no-cache")
			case path == "/metrics":
				c.Set(fiber.HeaderCacheControl, "no-cache")
			case strings.HasPrefix(path, "/v1/"):
				c.Set(fiber.HeaderCacheControl, "no-store")
			}
		}

		if polled(path) {
			applyETag(c)
		}
		return nil
	}
}

func polled(path string) bool {
	switch path {
	case "/v1/search/result", "/v1/gallery", "/v1/geolocation", "/v1/position":
		return true
	}
	return false
}

// applyETag computes a weak ETag from the response body and answers 304 if
// the client already has it.
func applyETag(c *fiber.Ctx) {
	if c.Response().StatusCode() != fiber.StatusOK {
		return
	}
	body := c.Response().Body()
	if len(body) == 0 {
		return
	}

	h := sha256.Sum256(body)
	etag := `W/"` + hex.EncodeToString(h[:8]) + `"`
	c.Set(fiber.HeaderETag, etag)

	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		c.Status(fiber.StatusNotModified)
		c.Response().ResetBody()
	}
}

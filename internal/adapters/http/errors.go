package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/around-app/around/internal/core/domain"
	"github.com/around-app/around/internal/core/usecases"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errConflict returns a 409 error.
func errConflict(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusConflict, "conflict", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// errBadGateway returns a 502 error carrying the backend's message.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadGateway, "backend_error", msg)
}

// fromDomain maps a domain error onto the matching response.
func fromDomain(c *fiber.Ctx, err error) error {
	var remote *domain.RemoteError
	switch {
	case errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrBoundsUnavailable),
		errors.Is(err, usecases.ErrEmptyMessage):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrPositionNotAvailable):
		return errConflict(c, err.Error())
	case errors.Is(err, domain.ErrGeolocationUnavailable):
		return errUnavailable(c, domain.MsgGeolocationUnavailable)
	case errors.As(err, &remote):
		msg := remote.Message
		if msg == "" {
			msg = remote.Error()
		}
		return errBadGateway(c, msg)
	default:
		return errInternal(c, err.Error())
	}
}

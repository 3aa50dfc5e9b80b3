package util

import (
	"errors"

	"github.com/fadilmartias/resume-analyzer/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the only error shape clients ever see.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// SuccessResponse writes data as the JSON body.
func SuccessResponse(c *fiber.Ctx, code int, data any) error {
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(data)
}

// ErrorResponse maps err to its status and generic message. The error text itself is
// never written to the client.
func ErrorResponse(c *fiber.Ctx, err error) error {
	return c.Status(apperr.StatusCode(err)).JSON(ErrorBody{
		Error: apperr.PublicMessage(err),
		Kind:  apperr.KindName(err),
	})
}

// FiberErrorHandler renders errors that escape handlers, such as unknown routes and
// oversized bodies, in the same shape.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		kind := "internal"
		switch {
		case fe.Code == fiber.StatusNotFound:
			kind = "not_found"
		case fe.Code == fiber.StatusRequestEntityTooLarge:
			kind = "invalid_input"
		case fe.Code == fiber.StatusTooManyRequests:
			kind = "rate_limited"
		case fe.Code < fiber.StatusInternalServerError:
			kind = "invalid_input"
		}
		msg := fe.Message
		if fe.Code >= fiber.StatusInternalServerError {
			msg = "Internal Server Error"
		}
		return c.Status(fe.Code).JSON(ErrorBody{Error: msg, Kind: kind})
	}
	return ErrorResponse(c, err)
}

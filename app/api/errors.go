package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"docqa/types"
)

// ErrorHandler is the single place where the error taxonomy turns into HTTP
// statuses. Client-input failures map to 4xx with their message; anything
// else is logged and surfaces as a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var valErr types.ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	switch {
	case errors.Is(err, types.ErrMissingInput),
		errors.Is(err, types.ErrUnsupportedFormat),
		errors.Is(err, types.ErrSessionNotFound),
		errors.Is(err, types.ErrInvalidModel):
		return c.Status(fiber.StatusBadRequest).JSON(NewError(fiber.StatusBadRequest, err.Error()))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(NewError(fiber.StatusInternalServerError, "internal server error"))
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the Error interface
func (e Error) Error() string {
	return e.Message
}

func NewError(code int, err string) Error {
	return Error{
		Code:    code,
		Message: err,
	}
}

func ErrBadRequest() Error {
	return Error{
		Code:    fiber.StatusBadRequest,
		Message: "invalid request",
	}
}

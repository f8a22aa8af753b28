package handlers

import (
	"errors"
	"log/slog"

	"officehub/internal/logging"
	"officehub/internal/middleware"
	"officehub/internal/models"
	"officehub/internal/services"

	"github.com/gofiber/fiber/v2"
)

// genericErrorDetail is all a caller learns about an unexpected failure
const genericErrorDetail = "An unexpected error occurred. Please try again later."

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Detail string              `json:"detail"`
	Errors []models.FieldError `json:"errors,omitempty"`
}

// StatusFor maps a service error kind to its HTTP status
func StatusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return fiber.StatusUnprocessableEntity
	case services.KindDuplicateKey, services.KindInvalidIdentifier:
		return fiber.StatusBadRequest
	case services.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the error reply for a service error
func respondError(c *fiber.Ctx, err error) error {
	var se *services.Error
	if !errors.As(err, &se) {
		// not ours, let the app-level handler deal with it
		return err
	}

	status := StatusFor(se.Kind)
	body := ErrorResponse{Detail: se.Detail}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		body.Errors = verr.Errors
	}

	if status >= fiber.StatusInternalServerError {
		requestLogger(c).Error("request failed", "error", err)
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is the process-wide fallback. Fiber errors keep their status and
// message; anything else is a 500 that reveals nothing about the cause.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Detail: fe.Message})
	}

	var se *services.Error
	if errors.As(err, &se) {
		return respondError(c, err)
	}

	requestLogger(c).Error("unhandled error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Detail: genericErrorDetail})
}

func requestLogger(c *fiber.Ctx) *slog.Logger {
	return logging.WithRequest(middleware.GetRequestID(c), c.Method(), c.Path())
}

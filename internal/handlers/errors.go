package handlers

import (
	"errors"
	"log/slog"
	"time"

	"productapi/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	messageValidationFailed = "Validation failed"
	messageConflict         = "Data integrity violation occurred"
	messageUnexpected       = "An unexpected error occurred"
)

// ErrorHandler translates errors returned by handlers into HTTP responses.
// It is installed as fiber.Config.ErrorHandler so every route shares one policy.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		ctx := c.UserContext()
		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err,
		}

		var (
			validationErr *apperrors.ValidationError
			fiberErr      *fiber.Error
		)
		switch {
		case errors.As(err, &validationErr):
			logger.WarnContext(ctx, "request validation failed", attrs...)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": messageValidationFailed,
				"errors":  validationErr.Fields,
			})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.WarnContext(ctx, "resource not found", attrs...)
			return errorResponse(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, apperrors.ErrConflict):
			logger.ErrorContext(ctx, "data integrity violation", attrs...)
			return errorResponse(c, fiber.StatusConflict, messageConflict)
		case errors.As(err, &fiberErr):
			if fiberErr.Code >= fiber.StatusInternalServerError {
				logger.ErrorContext(ctx, "request failed", attrs...)
			} else {
				logger.WarnContext(ctx, "request rejected", attrs...)
			}
			return errorResponse(c, fiberErr.Code, fiberErr.Message)
		default:
			logger.ErrorContext(ctx, "unexpected error", attrs...)
			return errorResponse(c, fiber.StatusInternalServerError, messageUnexpected)
		}
	}
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"error":     utils.StatusMessage(status),
		"message":   message,
		"path":      c.Path(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

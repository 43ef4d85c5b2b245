package serverutils

import (
	"errors"

	"book-chatbot-be/internal/pkg/logger"
	"book-chatbot-be/internal/service"
	"book-chatbot-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts service errors into the standard JSON
// error shape. Unknown errors are logged in full and surfaced as an
// opaque 500 so internals never leak to the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status, message := mapError(err)
		if status == fiber.StatusInternalServerError {
			log.Error("http", "Unhandled error", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"code":    status,
			"message": message,
		})
	}
}

func mapError(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest, validationErr.Detail
	}

	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrWeakPassword):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		// Never reveal which auth check failed.
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrEmailTaken):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, service.ErrRetrievalUnavailable):
		return fiber.StatusServiceUnavailable, "retrieval service unavailable"
	}

	if llm.IsRateLimit(err) {
		return fiber.StatusTooManyRequests, "the assistant is receiving too many requests, try again shortly"
	}
	if llm.IsTimeout(err) {
		return fiber.StatusGatewayTimeout, "the assistant took too long to answer"
	}
	var providerErr *llm.ProviderError
	if errors.As(err, &providerErr) {
		return fiber.StatusBadGateway, "the assistant is unavailable"
	}

	return fiber.StatusInternalServerError, "internal server error"
}

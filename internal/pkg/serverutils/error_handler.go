package serverutils

import (
	"errors"

	"notekeeper-be/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors escaping a handler into JSON
// error responses. Handlers that render pages deal with their own
// failure views and never return domain errors here.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": verr.Message})
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(fiber.Map{"detail": ferr.Message})
		}

		httpErr := apperrors.MapToHTTP(err)
		return ctx.Status(httpErr.StatusCode).JSON(fiber.Map{"detail": httpErr.Message})
	}
}

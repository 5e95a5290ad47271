package serverutils

import (
	"errors"
	"fmt"

	"scitech-bot/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers, and panics, into
// the JSON error envelope. Internal errors never leak their text; they go to
// log instead. A nil log discards them.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return func(ctx *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("HTTP", "Panic while serving request", map[string]interface{}{
					"method": ctx.Method(),
					"path":   ctx.Path(),
					"error":  fmt.Sprint(r),
				})
				err = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
			}
		}()

		err = ctx.Next()
		if err == nil {
			return nil
		}
		return writeError(ctx, log, err)
	}
}

func writeError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		res := ErrorResponse(fiber.StatusBadRequest, "Invalid request")
		res.Errors = verr.Fields
		return ctx.Status(fiber.StatusBadRequest).JSON(res)
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Code, ferr.Message))
	}

	log.Error("HTTP", "Request failed", map[string]interface{}{
		"method": ctx.Method(),
		"path":   ctx.Path(),
		"error":  err.Error(),
	})
	return ctx.Status(fiber.StatusInternalServerError).
		JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}

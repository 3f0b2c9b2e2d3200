package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"policy-qa-be/pkg/llm"
)

// ErrorHandlerMiddleware converts errors bubbling out of controllers into
// the standard envelope. Model-call failures map to 502 since the upstream
// provider, not the caller, is at fault.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(ve.Error()))
		}

		var mce *llm.ModelCallError
		if errors.As(err, &mce) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse("model provider unavailable"))
		}

		var se *llm.SchemaError
		if errors.As(err, &se) {
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse("model returned malformed output"))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}

package serverutils

import (
	"errors"

	"ai-legalchat-be/pkg/rag/executor"

	"github.com/gofiber/fiber/v2"
)

// StatusRequestCancelled mirrors nginx's 499 for turns stopped by the
// caller. Fiber has no named constant for it.
const StatusRequestCancelled = 499

// ErrorHandlerMiddleware maps service errors onto JSON error bodies: a
// cancelled chat turn gets 499, fiber errors keep their code, anything
// else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var cancelled *executor.CancelledError
		if errors.As(err, &cancelled) {
			return ctx.Status(StatusRequestCancelled).JSON(fiber.Map{
				"success":    false,
				"code":       StatusRequestCancelled,
				"message":    "chat turn cancelled",
				"session_id": cancelled.SessionID,
			})
		}

		if errors.Is(err, executor.ErrSessionMissing) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusBadRequest,
				"message": err.Error(),
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"code":    fiberErr.Code,
				"message": fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    fiber.StatusInternalServerError,
			"message": err.Error(),
		})
	}
}

package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kesalumni16-crypto/KES-Alumni-sub000/alumni-svc/internal/helper"
)

func ResponseError(ctx *fiber.Ctx, status int, code, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": msg,
		"code":    code,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(data)
}

// ErrorHandler renders every error returned by a handler as {"message", "code"}.
// Unexpected errors are logged and replaced by a generic message.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var appErr *helper.AppError
		if errors.As(err, &appErr) {
			if appErr.Kind == helper.KindInternal {
				logger.Error("request failed",
					zap.String("path", ctx.Path()),
					zap.String("request_id", RequestID(ctx)),
					zap.Error(err),
				)
				return ResponseError(ctx, fiber.StatusInternalServerError, appErr.Kind.Code(), "Internal server error")
			}
			return ResponseError(ctx, appErr.Kind.Status(), appErr.Kind.Code(), appErr.Message)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ResponseError(ctx, fe.Code, "http_error", fe.Message)
		}

		logger.Error("unhandled error",
			zap.String("path", ctx.Path()),
			zap.String("request_id", RequestID(ctx)),
			zap.Error(err),
		)
		return ResponseError(ctx, fiber.StatusInternalServerError, helper.KindInternal.Code(), "Internal server error")
	}
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/fortress-labs/auth-service/internal/auth/dto"
	apperrors "github.com/fortress-labs/auth-service/internal/errors"
	"github.com/fortress-labs/auth-service/internal/obs"
)

// respondError writes the uniform error body. Internal and unavailable
// errors get a generic message so no dependency error text leaks; the
// cause is logged server-side keyed by request id.
func respondError(c *fiber.Ctx, err error) error {
	app := apperrors.From(err)
	requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)

	message := app.Message
	switch app.Kind {
	case apperrors.KindInternal:
		message = "internal error"
	case apperrors.KindUnavailable:
		message = "service unavailable"
	}

	if app.Kind == apperrors.KindInternal || app.Kind == apperrors.KindUnavailable {
		obs.Logger().Error("request failed",
			"request_id", requestID,
			"path", c.Path(),
			"code", app.Code(),
			"error", app.Error(),
		)
	}

	return c.Status(app.Status()).JSON(dto.ErrorResponse{
		Code:      app.Code(),
		Message:   message,
		RequestID: requestID,
	})
}

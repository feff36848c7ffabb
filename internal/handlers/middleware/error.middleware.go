package middleware

import (
	domainerrors "roomlog/internal/errors"
	"roomlog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
	TraceID string `json:"traceId,omitempty"`
}

// RenderError writes err as JSON. Domain errors keep their status, code and details;
// fiber errors keep their status; anything else is a 500 with a generic message.
func RenderError(c *fiber.Ctx, err error) error {
	response := ErrorResponse{TraceID: GetTraceID(c)}
	status := fiber.StatusInternalServerError

	var domainErr *domainerrors.Error
	var fiberErr *fiber.Error

	switch {
	case domainerrors.As(err, &domainErr) && domainErr.Kind != domainerrors.KindInternal:
		status = domainErr.HTTPStatus()
		response.Error = domainErr.Message
		response.Code = string(domainErr.Code)
		response.Details = domainErr.Details
	case domainerrors.As(err, &fiberErr):
		status = fiberErr.Code
		response.Error = fiberErr.Message
	default:
		logger.New("middleware").
			TraceFromContext(c.UserContext()).
			Function("RenderError").
			Er("unhandled error", err, "path", c.Path(), "method", c.Method())
		response.Error = domainerrors.ErrInternal.Message
	}

	return c.Status(status).JSON(response)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler so handlers can return errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return RenderError(c, err)
}

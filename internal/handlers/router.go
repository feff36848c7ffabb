package handlers

import (
	"strconv"

	"roomlog/internal/app"
	domainerrors "roomlog/internal/errors"
	"roomlog/internal/handlers/middleware"
	"roomlog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewAuthHandler(*app, api).Register()
	NewUserHandler(*app, api).Register()
	NewStoreHandler(*app, api).Register()
	NewRecordHandler(*app, api).Register()
	NewReviewHandler(*app, api).Register()

	return nil
}

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (int, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, domainerrors.Validationf(
			domainerrors.CodeInvalidRequest,
			"%s must be a positive integer",
			name,
		)
	}
	return id, nil
}

// queryLimit reads the optional "limit" query value; zero lets the controller choose.
func queryLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, domainerrors.Validation(
			domainerrors.CodeInvalidRequest,
			"limit must be a non-negative integer",
		)
	}
	return limit, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domainerrors.Validation(domainerrors.CodeInvalidRequest, "invalid request body").
			WithCause(err)
	}
	return nil
}

package handlers

import (
	"roomlog/internal/app"
	domainerrors "roomlog/internal/errors"
	"roomlog/internal/handlers/middleware"
	"roomlog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")

	protected := users.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.getCurrentUser)
}

func (h *UserHandler) getCurrentUser(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user == nil {
		return middleware.RenderError(c, domainerrors.ErrUnauthorized)
	}

	return c.JSON(fiber.Map{
		"user":  user.ToProfile(),
		"email": user.Email,
	})
}

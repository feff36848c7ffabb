package handlers

import (
	"roomlog/internal/app"
	authController "roomlog/internal/controllers/auth"
	"roomlog/internal/handlers/middleware"
	"roomlog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	controller authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		controller: app.Controllers.Auth,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	auth.Post("/signup", h.signup)
	auth.Post("/login", h.login)
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var request authController.SignupRequest
	if err := parseBody(c, &request); err != nil {
		return middleware.RenderError(c, err)
	}

	response, err := h.controller.Signup(c.UserContext(), &request)
	if err != nil {
		return middleware.RenderError(c, err)
	}

	h.log.Function("signup").Info("user signed up", "userID", response.User.ID)
	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var request authController.LoginRequest
	if err := parseBody(c, &request); err != nil {
		return middleware.RenderError(c, err)
	}

	response, err := h.controller.Login(c.UserContext(), &request)
	if err != nil {
		return middleware.RenderError(c, err)
	}

	return c.JSON(response)
}

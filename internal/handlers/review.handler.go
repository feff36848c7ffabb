package handlers

import (
	"roomlog/internal/app"
	reviewController "roomlog/internal/controllers/reviews"
	"roomlog/internal/handlers/middleware"
	"roomlog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Handler
	reviews reviewController.ReviewControllerInterface
}

func NewReviewHandler(app app.App, router fiber.Router) *ReviewHandler {
	log := logger.New("handlers").File("review_handler")
	return &ReviewHandler{
		reviews: app.Controllers.Review,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ReviewHandler) Register() {
	reviews := h.router.Group("/reviews", h.middleware.RequireAuth())
	reviews.Delete("/:id", h.deleteReview)
}

func (h *ReviewHandler) deleteReview(c *fiber.Ctx) error {
	reviewID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	if err := h.reviews.DeleteReview(c.UserContext(), middleware.GetUser(c), reviewID); err != nil {
		return middleware.RenderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"roomlog/internal/app"
	reviewController "roomlog/internal/controllers/reviews"
	storeController "roomlog/internal/controllers/stores"
	domainerrors "roomlog/internal/errors"
	"roomlog/internal/handlers/middleware"
	"roomlog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler serves the read-only catalog: stores, themes and theme reviews.
type StoreHandler struct {
	Handler
	stores  storeController.StoreControllerInterface
	reviews reviewController.ReviewControllerInterface
}

func NewStoreHandler(app app.App, router fiber.Router) *StoreHandler {
	log := logger.New("handlers").File("store_handler")
	return &StoreHandler{
		stores:  app.Controllers.Store,
		reviews: app.Controllers.Review,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *StoreHandler) Register() {
	stores := h.router.Group("/stores")
	stores.Get("/", h.listStores)
	stores.Get("/:id", h.getStore)
	stores.Get("/:id/themes", h.listStoreThemes)

	themes := h.router.Group("/themes")
	themes.Get("/", h.listThemes)
	themes.Get("/:id", h.getTheme)
	themes.Get("/:id/reviews", h.listThemeReviews)
}

func (h *StoreHandler) listStores(c *fiber.Ctx) error {
	stores, err := h.stores.ListStores(c.UserContext())
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(fiber.Map{"stores": stores})
}

func (h *StoreHandler) getStore(c *fiber.Ctx) error {
	storeID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	store, err := h.stores.GetStore(c.UserContext(), storeID)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(store)
}

func (h *StoreHandler) listStoreThemes(c *fiber.Ctx) error {
	storeID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return h.respondThemes(c, &storeID)
}

func (h *StoreHandler) listThemes(c *fiber.Ctx) error {
	var storeID *int
	if c.Query("storeId") != "" {
		id := c.QueryInt("storeId")
		if id <= 0 {
			return middleware.RenderError(c, domainerrors.Validation(
				domainerrors.CodeInvalidRequest,
				"storeId must be a positive integer",
			))
		}
		storeID = &id
	}
	return h.respondThemes(c, storeID)
}

func (h *StoreHandler) respondThemes(c *fiber.Ctx, storeID *int) error {
	themes, err := h.stores.ListThemes(c.UserContext(), storeID)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(fiber.Map{"themes": themes})
}

func (h *StoreHandler) getTheme(c *fiber.Ctx) error {
	themeID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	theme, err := h.stores.GetTheme(c.UserContext(), themeID)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(theme)
}

func (h *StoreHandler) listThemeReviews(c *fiber.Ctx) error {
	themeID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}
	limit, err := queryLimit(c)
	if err != nil {
		return middleware.RenderError(c, err)
	}

	reviews, err := h.reviews.ListThemeReviews(c.UserContext(), themeID, limit)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

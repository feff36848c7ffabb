package handlers

import (
	"strings"

	"roomlog/internal/app"
	recordController "roomlog/internal/controllers/records"
	reviewController "roomlog/internal/controllers/reviews"
	domainerrors "roomlog/internal/errors"
	"roomlog/internal/handlers/middleware"
	"roomlog/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

type RecordHandler struct {
	Handler
	records recordController.RecordControllerInterface
	reviews reviewController.ReviewControllerInterface
}

type visibilityRequest struct {
	Visible *bool `json:"visible" form:"visible"`
}

func NewRecordHandler(app app.App, router fiber.Router) *RecordHandler {
	log := logger.New("handlers").File("record_handler")
	return &RecordHandler{
		records: app.Controllers.Record,
		reviews: app.Controllers.Review,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecordHandler) Register() {
	records := h.router.Group("/records")
	records.Get("/:id<int>", h.getRecord)

	protected := records.Group("/", h.middleware.RequireAuth())
	protected.Post("/", h.createRecord)
	protected.Get("/me", h.listMyRecords)
	protected.Patch("/:id", h.updateRecord)
	protected.Delete("/:id", h.deleteRecord)
	protected.Patch("/:id/visibility", h.setVisibility)
	protected.Post("/:id/reviews", h.createReview)
}

func (h *RecordHandler) createRecord(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var request recordController.CreateRecordRequest
	if err := parseBody(c, &request); err != nil {
		return middleware.RenderError(c, err)
	}
	if party, ok := formParty(c); ok {
		request.Party = party
	}

	record, err := h.records.CreateRecord(c.UserContext(), user, &request)
	if err != nil {
		return middleware.RenderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *RecordHandler) getRecord(c *fiber.Ctx) error {
	recordID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	record, err := h.records.GetRecord(c.UserContext(), recordID)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(record)
}

func (h *RecordHandler) listMyRecords(c *fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return middleware.RenderError(c, err)
	}

	records, err := h.records.ListMyRecords(c.UserContext(), middleware.GetUser(c), limit)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(fiber.Map{"records": records})
}

func (h *RecordHandler) updateRecord(c *fiber.Ctx) error {
	recordID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	var request recordController.UpdateRecordRequest
	if err := parseBody(c, &request); err != nil {
		return middleware.RenderError(c, err)
	}
	if party, ok := formParty(c); ok {
		request.Party = party
	}

	record, err := h.records.UpdateRecord(c.UserContext(), middleware.GetUser(c), recordID, &request)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.JSON(record)
}

func (h *RecordHandler) deleteRecord(c *fiber.Ctx) error {
	recordID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	if err := h.records.DeleteRecord(c.UserContext(), middleware.GetUser(c), recordID); err != nil {
		return middleware.RenderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecordHandler) setVisibility(c *fiber.Ctx) error {
	recordID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	var request visibilityRequest
	if err := parseBody(c, &request); err != nil {
		return middleware.RenderError(c, err)
	}
	if request.Visible == nil {
		return middleware.RenderError(c, domainerrors.Validation(
			domainerrors.CodeInvalidRequest,
			"visible is required",
		))
	}

	user := middleware.GetUser(c)
	if err := h.records.SetVisibility(c.UserContext(), user, recordID, *request.Visible); err != nil {
		return middleware.RenderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *RecordHandler) createReview(c *fiber.Ctx) error {
	recordID, err := paramID(c, "id")
	if err != nil {
		return middleware.RenderError(c, err)
	}

	var request reviewController.CreateReviewRequest
	if err := parseBody(c, &request); err != nil {
		return middleware.RenderError(c, err)
	}

	review, err := h.reviews.CreateReview(c.UserContext(), middleware.GetUser(c), recordID, &request)
	if err != nil {
		return middleware.RenderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// formParty returns the raw "party" values of a form body. The form decoder drops
// blank values, but "party=" must reach the controller as a blank entry so it
// reads as no party rather than an empty one.
func formParty(c *fiber.Ctx) (recordController.PartyInput, bool) {
	contentType := string(c.Request().Header.ContentType())

	var values []string
	switch {
	case strings.HasPrefix(contentType, fiber.MIMEApplicationForm):
		args := c.Request().PostArgs()
		if !args.Has("party") {
			return nil, false
		}
		for _, value := range args.PeekMulti("party") {
			values = append(values, string(value))
		}
	case strings.HasPrefix(contentType, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, false
		}
		raw, ok := form.Value["party"]
		if !ok {
			return nil, false
		}
		values = raw
	default:
		return nil, false
	}

	party := make(recordController.PartyInput, 0, len(values))
	for _, value := range values {
		party = append(party, strings.Split(value, ",")...)
	}
	return party, true
}

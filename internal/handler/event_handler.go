package handler

import (
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/service"
	"github.com/sefazor/ticketgate-backend/pkg/qrcode"
	"github.com/sefazor/ticketgate-backend/pkg/utils"
)

type EventHandler struct {
	eventService *service.EventService
	qrService    *qrcode.QRService
	validator    *utils.Validator
}

func NewEventHandler(eventService *service.EventService, qrService *qrcode.QRService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		qrService:    qrService,
		validator:    validator,
	}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	event, err := h.eventService.CreateEvent(userID, req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(event, "Event created"))
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	event, err := h.eventService.GetEvent(eventID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(event, ""))
}

// PublicList serves the public landing page: featured, upcoming and past
// groups, each independently paged, with search and filters applied to all.
func (h *EventHandler) PublicList(c *fiber.Ctx) error {
	query := models.EventListQuery{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		Price:        c.Query("price", models.PriceFilterAll),
		FeaturedPage: c.QueryInt("featured_page", 1),
		UpcomingPage: c.QueryInt("upcoming_page", 1),
		PastPage:     c.QueryInt("past_page", 1),
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid start_date, expected YYYY-MM-DD"))
		}
		query.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid end_date, expected YYYY-MM-DD"))
		}
		// Inclusive of the whole end day.
		t = t.Add(24*time.Hour - time.Second)
		query.EndDate = &t
	}

	list, err := h.eventService.PublicList(query)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(list, ""))
}

func (h *EventHandler) GetDashboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	events, err := h.eventService.GetDashboard(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(events, ""))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	event, err := h.eventService.UpdateEvent(eventID, userID, req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(event, "Event updated"))
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	if err := h.eventService.DeleteEvent(eventID, userID); err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "Event deleted"))
}

func (h *EventHandler) UploadAvatar(c *fiber.Ctx) error {
	return h.uploadImage(c, h.eventService.UploadAvatar)
}

func (h *EventHandler) UploadBanner(c *fiber.Ctx) error {
	return h.uploadImage(c, h.eventService.UploadBanner)
}

type imageUpload struct {
	ContentType string `validate:"required,supported_image"`
}

func (h *EventHandler) uploadImage(c *fiber.Ctx, upload func(eventID, userID uint, filename string, file io.Reader) (string, error)) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Image file is required"))
	}

	check := imageUpload{ContentType: fileHeader.Header.Get("Content-Type")}
	if err := h.validator.Struct(check); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Unsupported image type"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not read uploaded file"))
	}
	defer file.Close()

	url, err := upload(eventID, userID, fileHeader.Filename, file)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"url": url}, "Image uploaded"))
}

// EventQR renders a PNG QR code linking to the event's public page.
func (h *EventHandler) EventQR(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	// Confirm the event exists before rendering a code for it.
	if _, err := h.eventService.GetEvent(eventID); err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	size := c.QueryInt("size", 256)
	if size < 64 || size > 1024 {
		size = 256
	}

	png, err := h.qrService.GenerateEventQR(eventID, size)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not generate QR code"))
	}

	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

func eventIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

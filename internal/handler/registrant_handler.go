package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/service"
	"github.com/sefazor/ticketgate-backend/pkg/utils"
)

type RegistrantHandler struct {
	registrantService *service.RegistrantService
	paymentService    *service.PaymentService
	validator         *utils.Validator
}

func NewRegistrantHandler(
	registrantService *service.RegistrantService,
	paymentService *service.PaymentService,
	validator *utils.Validator,
) *RegistrantHandler {
	return &RegistrantHandler{
		registrantService: registrantService,
		paymentService:    paymentService,
		validator:         validator,
	}
}

// ListRegistrants returns the registrant list, with earnings for paid
// events. A locked free event answers 402 and points at the unlock endpoint.
func (h *RegistrantHandler) ListRegistrants(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	list, err := h.registrantService.ListRegistrants(eventID, userID)
	if err != nil {
		if errors.Is(err, service.ErrUnlockRequired) {
			return c.Status(fiber.StatusPaymentRequired).JSON(models.Response{
				Success: false,
				Error:   err.Error(),
				Data: fiber.Map{
					"unlock_url": c.Path() + "/unlock",
				},
			})
		}
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(list, ""))
}

// UnlockRegistrants opens the checkout that buys access to a free event's
// registrant details.
func (h *RegistrantHandler) UnlockRegistrants(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	checkout, err := h.registrantService.UnlockCheckout(eventID, userID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(checkout, ""))
}

// ConfirmUnlock is the redirect target after the unlock checkout. The
// webhook usually lands first; this is the belt-and-braces second trigger.
func (h *RegistrantHandler) ConfirmUnlock(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("session_id is required"))
	}

	if err := h.paymentService.ConfirmUnlock(eventID, userID, sessionID); err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "Registrants unlocked"))
}

// EmailRegistrants sends the organizer's message to every registrant.
func (h *RegistrantHandler) EmailRegistrants(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.BulkEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	sent, err := h.registrantService.EmailRegistrants(eventID, userID, req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"sent": sent}, "Message sent to registrants"))
}

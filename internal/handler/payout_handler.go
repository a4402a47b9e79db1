package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/service"
)

type PayoutHandler struct {
	payoutService *service.PayoutService
}

func NewPayoutHandler(payoutService *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		payoutService: payoutService,
	}
}

// RequestPayout puts the event's current net earnings into a processing
// payout.
func (h *PayoutHandler) RequestPayout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	payout, err := h.payoutService.RequestPayout(eventID, userID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(payout, "Payout requested"))
}

func (h *PayoutHandler) GetMyPayouts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	payouts, err := h.payoutService.GetUserPayouts(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(payouts, ""))
}

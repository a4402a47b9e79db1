package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/service"
	"github.com/sefazor/ticketgate-backend/pkg/captcha"
	"github.com/sefazor/ticketgate-backend/pkg/utils"
)

type RegistrationHandler struct {
	regService     *service.RegistrationService
	paymentService *service.PaymentService
	validator      *utils.Validator
}

func NewRegistrationHandler(
	regService *service.RegistrationService,
	paymentService *service.PaymentService,
	validator *utils.Validator,
) *RegistrationHandler {
	return &RegistrationHandler{
		regService:     regService,
		paymentService: paymentService,
		validator:      validator,
	}
}

// Register takes a public registration submission. A logged-in caller gets
// the registration linked to their account; anonymous submissions carry a
// captcha token instead.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	eventID, err := eventIDParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	var userID *uint
	if id, ok := c.Locals("userID").(uint); ok {
		userID = &id
	} else {
		ok, err := captcha.VerifyTurnstile(c.Get("X-Turnstile-Token"))
		if err != nil || !ok {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(service.ErrCaptchaFailed.Error()))
		}
	}

	result, err := h.regService.Register(eventID, userID, req)
	if err != nil {
		return c.Status(statusFor(err)).JSON(models.ErrorResponse(err.Error()))
	}

	status := fiber.StatusCreated
	if result.Status == models.RegistrationResultCheckout {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(models.SuccessResponse(result, ""))
}

// RegisterResult backs the page the registrant lands on after submitting.
// Free registrations and checkout cancellations arrive with flags; paid ones
// come back from the gateway with a session id to verify.
func (h *RegistrationHandler) RegisterResult(c *fiber.Ctx) error {
	if c.Query("canceled") == "1" {
		return c.JSON(models.SuccessResponse(models.RegistrationResultResponse{
			State:   "info",
			Title:   "Payment canceled",
			Message: "Your registration was not completed. You can try again whenever you like.",
		}, ""))
	}

	if c.Query("registered") == "1" {
		return c.JSON(models.SuccessResponse(models.RegistrationResultResponse{
			State:   "success",
			Title:   "You're registered",
			Message: "Your spot is confirmed. A confirmation email is on its way.",
		}, ""))
	}

	if c.Query("paid") == "1" {
		sessionID := c.Query("session_id")
		if sessionID == "" {
			return c.JSON(models.SuccessResponse(models.RegistrationResultResponse{
				State:   "error",
				Title:   "Missing payment reference",
				Message: "We could not find your payment session. If you were charged, contact the organizer.",
			}, ""))
		}

		if err := h.paymentService.ConfirmRegistration(sessionID); err != nil {
			return c.JSON(models.SuccessResponse(models.RegistrationResultResponse{
				State:   "warning",
				Title:   "Payment not confirmed yet",
				Message: "We could not verify your payment yet. If you completed checkout, your ticket will be confirmed shortly.",
			}, ""))
		}

		return c.JSON(models.SuccessResponse(models.RegistrationResultResponse{
			State:   "success",
			Title:   "Payment received",
			Message: "Your ticket is confirmed. See you at the event!",
		}, ""))
	}

	return c.JSON(models.SuccessResponse(models.RegistrationResultResponse{
		State:   "error",
		Title:   "Something went wrong",
		Message: "We could not work out the state of your registration.",
	}, ""))
}

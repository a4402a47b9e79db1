package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/ticketgate-backend/internal/service"
)

// statusFor maps service errors onto HTTP statuses so every handler renders
// them the same way.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotEventOwner):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrUnlockRequired):
		return fiber.StatusPaymentRequired
	case errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyUnlocked),
		errors.Is(err, service.ErrPayoutInFlight):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNoValidSessions),
		errors.Is(err, service.ErrUnlockNotNeeded),
		errors.Is(err, service.ErrNoRegistrants),
		errors.Is(err, service.ErrFreeEventPayout),
		errors.Is(err, service.ErrNothingToPayOut),
		errors.Is(err, service.ErrPaymentNotVerified),
		errors.Is(err, service.ErrCaptchaFailed):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

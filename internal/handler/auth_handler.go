package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/ticketgate-backend/internal/models"
	"github.com/sefazor/ticketgate-backend/internal/service"
	"github.com/sefazor/ticketgate-backend/pkg/utils"
)

type AuthHandler struct {
	authService   *service.AuthService
	socialService *service.SocialAuthService
	userService   *service.UserService
	validator     *utils.Validator
}

func NewAuthHandler(
	authService *service.AuthService,
	socialService *service.SocialAuthService,
	userService *service.UserService,
	validator *utils.Validator,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		socialService: socialService,
		userService:   userService,
		validator:     validator,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(resp, "User registered successfully"))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(resp, "Login successful"))
}

// SocialRedirect sends the browser to the provider's consent page.
func (h *AuthHandler) SocialRedirect(c *fiber.Ctx) error {
	provider := c.Params("provider")
	state := c.Query("state", utils.GenerateRandomString(24))

	redirectURL, err := h.socialService.RedirectURL(provider, state)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProvider) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Unknown provider"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Could not start social login"))
	}

	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

// SocialCallback completes the provider round trip and returns our own JWT.
func (h *AuthHandler) SocialCallback(c *fiber.Ctx) error {
	provider := c.Params("provider")
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing authorization code"))
	}

	resp, err := h.socialService.HandleCallback(c.Context(), provider, code)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProvider) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Unknown provider"))
		}
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Social login failed"))
	}

	return c.JSON(models.SuccessResponse(resp, "Login successful"))
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("User not found"))
	}

	return c.JSON(models.SuccessResponse(user, ""))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	user, err := h.userService.UpdateProfile(userID, req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(user, "Profile updated"))
}

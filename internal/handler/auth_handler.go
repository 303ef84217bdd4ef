package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// AuthHandler provides registration, login and profile endpoints.
type AuthHandler struct {
	service   service.AuthService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler constructs a handler instance.
func NewAuthHandler(service service.AuthService, validator *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register binds the public auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/refresh", h.refresh)
	router.Post("/password-reset", h.requestReset)
	router.Post("/password-reset/confirm", h.confirmReset)
}

// RegisterProtected binds routes that require a valid access token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/me", h.me)
	router.Put("/me", h.updateProfile)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(withRequestContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registered", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(withRequestContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "logged in", response)
}

func (h *AuthHandler) refresh(c *fiber.Ctx) error {
	var payload dto.RefreshRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	pair, err := h.service.Refresh(withRequestContext(c), payload.RefreshToken)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "token refreshed", pair)
}

func (h *AuthHandler) requestReset(c *fiber.Ctx) error {
	var payload dto.PasswordResetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := h.service.RequestPasswordReset(withRequestContext(c), payload.Email); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	// Unknown emails get the same answer as known ones.
	return utils.SendSuccess(c, "reset requested", nil)
}

func (h *AuthHandler) confirmReset(c *fiber.Ctx) error {
	var payload dto.PasswordResetConfirm
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.ResetPassword(withRequestContext(c), payload.Token, payload.NewPassword); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "password reset", nil)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	response, err := h.service.GetUser(withRequestContext(c), userID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "profile", response)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdateProfile(withRequestContext(c), userID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "profile updated", response)
}

package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// ConversationHandler provides private and group conversation endpoints.
type ConversationHandler struct {
	service   service.ConversationService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewConversationHandler constructs a handler instance.
func NewConversationHandler(service service.ConversationService, validator *validator.Validate, logger zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "conversation_handler").Logger(),
	}
}

// Register binds the conversation routes.
func (h *ConversationHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/private", h.openPrivate)
	router.Post("/groups", h.createGroup)
	router.Get("/:id", h.get)
	router.Put("/:id", h.updateGroup)
	router.Post("/:id/members", h.addMember)
	router.Delete("/:id/members/:userId", h.removeMember)
	router.Put("/:id/members/:userId/admin", h.setAdmin)
	router.Post("/:id/leave", h.leave)
}

func (h *ConversationHandler) list(c *fiber.Ctx) error {
	conversations, err := h.service.List(withRequestContext(c), userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "conversations", conversations)
}

func (h *ConversationHandler) openPrivate(c *fiber.Ctx) error {
	var payload dto.PrivateConversationCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.OpenPrivate(withRequestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "conversation", response)
}

func (h *ConversationHandler) createGroup(c *fiber.Ctx) error {
	var payload dto.GroupCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.CreateGroup(withRequestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "group created", response)
}

func (h *ConversationHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(withRequestContext(c), userIDFromContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "conversation", response)
}

func (h *ConversationHandler) updateGroup(c *fiber.Ctx) error {
	var payload dto.GroupUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.UpdateGroup(withRequestContext(c), userIDFromContext(c), c.Params("id"), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "group updated", response)
}

func (h *ConversationHandler) addMember(c *fiber.Ctx) error {
	var payload dto.GroupMemberRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.AddMember(withRequestContext(c), userIDFromContext(c), c.Params("id"), payload); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "member added", nil)
}

func (h *ConversationHandler) removeMember(c *fiber.Ctx) error {
	if err := h.service.RemoveMember(withRequestContext(c), userIDFromContext(c), c.Params("id"), c.Params("userId")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "member removed", nil)
}

func (h *ConversationHandler) setAdmin(c *fiber.Ctx) error {
	var payload struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.SetAdmin(withRequestContext(c), userIDFromContext(c), c.Params("id"), c.Params("userId"), payload.IsAdmin); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "admin updated", nil)
}

func (h *ConversationHandler) leave(c *fiber.Ctx) error {
	if err := h.service.Leave(withRequestContext(c), userIDFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "left conversation", nil)
}

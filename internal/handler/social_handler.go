package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// SocialHandler provides friend, presence and user search endpoints.
type SocialHandler struct {
	service   service.SocialService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSocialHandler constructs a handler instance.
func NewSocialHandler(service service.SocialService, validator *validator.Validate, logger zerolog.Logger) *SocialHandler {
	return &SocialHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "social_handler").Logger(),
	}
}

// Register binds the social routes.
func (h *SocialHandler) Register(router fiber.Router) {
	router.Get("/users/search", h.searchUsers)

	router.Post("/friend-requests", h.sendRequest)
	router.Get("/friend-requests/incoming", h.listIncoming)
	router.Get("/friend-requests/outgoing", h.listOutgoing)
	router.Post("/friend-requests/:id/accept", h.acceptRequest)
	router.Post("/friend-requests/:id/decline", h.declineRequest)
	router.Delete("/friend-requests/:id", h.cancelRequest)

	router.Get("/friends", h.listFriends)
	router.Delete("/friends/:id", h.removeFriend)

	router.Post("/presence/heartbeat", h.heartbeat)
	router.Get("/presence", h.presence)
}

func (h *SocialHandler) searchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "q required")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	users, err := h.service.SearchUsers(withRequestContext(c), userIDFromContext(c), query, limit)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "users", users)
}

func (h *SocialHandler) sendRequest(c *fiber.Ctx) error {
	var payload dto.FriendRequestCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.SendRequest(withRequestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "friend request sent", response)
}

func (h *SocialHandler) listIncoming(c *fiber.Ctx) error {
	requests, err := h.service.ListIncoming(withRequestContext(c), userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "incoming requests", requests)
}

func (h *SocialHandler) listOutgoing(c *fiber.Ctx) error {
	requests, err := h.service.ListOutgoing(withRequestContext(c), userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "outgoing requests", requests)
}

func (h *SocialHandler) acceptRequest(c *fiber.Ctx) error {
	if err := h.service.AcceptRequest(withRequestContext(c), userIDFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "friend request accepted", nil)
}

func (h *SocialHandler) declineRequest(c *fiber.Ctx) error {
	if err := h.service.DeclineRequest(withRequestContext(c), userIDFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "friend request declined", nil)
}

func (h *SocialHandler) cancelRequest(c *fiber.Ctx) error {
	if err := h.service.CancelRequest(withRequestContext(c), userIDFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "friend request cancelled", nil)
}

func (h *SocialHandler) listFriends(c *fiber.Ctx) error {
	friends, err := h.service.ListFriends(withRequestContext(c), userIDFromContext(c))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "friends", friends)
}

func (h *SocialHandler) removeFriend(c *fiber.Ctx) error {
	if err := h.service.RemoveFriend(withRequestContext(c), userIDFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "friend removed", nil)
}

func (h *SocialHandler) heartbeat(c *fiber.Ctx) error {
	if err := h.service.Heartbeat(withRequestContext(c), userIDFromContext(c)); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "presence refreshed", nil)
}

func (h *SocialHandler) presence(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("user_ids"))
	if raw == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "user_ids required")
	}

	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}

	statuses, err := h.service.Presence(withRequestContext(c), ids)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "presence", statuses)
}

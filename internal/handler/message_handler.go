package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/middleware"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// MessageHandler wires message endpoints including the websocket upgrade.
type MessageHandler struct {
	service   service.MessageService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMessageHandler creates a message handler instance.
func NewMessageHandler(service service.MessageService, validator *validator.Validate, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "message_handler").Logger(),
	}
}

// Register binds message routes under the provided router group.
func (h *MessageHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.handleConnection))

	router.Get("/:id/messages", h.history)
	router.Post("/:id/messages", h.send)
	router.Post("/:id/read", h.markRead)
	router.Delete("/:id/messages/:messageId", h.deleteMessage)
	router.Post("/:id/typing", h.typing)
	router.Get("/:id/typing", h.typingStatus)
}

func (h *MessageHandler) handleConnection(conn *websocket.Conn) {
	userID := websocketUserID(conn)
	if userID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	conversationID := strings.TrimSpace(conn.Query("conversation_id"))
	if conversationID == "" {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "conversation_id required"))
		_ = conn.Close()
		return
	}

	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	if !h.service.IsMember(baseCtx, conversationID, userID) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusForbidden, "not a member"))
		_ = conn.Close()
		return
	}

	opts := service.SocketOptions{
		UserID:         userID,
		UserName:       localStringFromConn(conn, "user_name"),
		UserAvatar:     localStringFromConn(conn, "user_avatar"),
		ConversationID: conversationID,
		CorrelationID:  localStringFromConn(conn, "correlation_id"),
		Context:        baseCtx,
	}

	h.logger.Info().Str("user_id", userID).Str("conversation_id", conversationID).Msg("socket connected")
	h.service.ServeConnection(conn, opts)
	h.logger.Info().Str("user_id", userID).Str("conversation_id", conversationID).Msg("socket disconnected")
}

func localStringFromConn(conn *websocket.Conn, key string) string {
	if v := conn.Locals(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (h *MessageHandler) history(c *fiber.Ctx) error {
	conversationID := c.Params("id")

	var beforePtr *time.Time
	if before := c.Query("before"); before != "" {
		parsed, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid before timestamp")
		}
		beforePtr = &parsed
	}

	limit := 0
	if limitRaw := c.Query("limit"); limitRaw != "" {
		parsed, err := strconv.Atoi(limitRaw)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	query := dto.MessageHistoryQuery{Before: beforePtr, Limit: limit}

	messages, err := h.service.History(withRequestContext(c), userIDFromContext(c), conversationID, query)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "messages", messages)
}

func (h *MessageHandler) send(c *fiber.Ctx) error {
	var payload dto.MessageSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	sender := service.SocketOptions{
		UserID:         userIDFromContext(c),
		UserName:       localString(c, "user_name"),
		UserAvatar:     localString(c, "user_avatar"),
		ConversationID: c.Params("id"),
		CorrelationID:  middleware.GetCorrelationID(c),
	}

	response, err := h.service.Send(withRequestContext(c), sender, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", response)
}

func (h *MessageHandler) markRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(withRequestContext(c), userIDFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "conversation read", nil)
}

func (h *MessageHandler) deleteMessage(c *fiber.Ctx) error {
	if err := h.service.Delete(withRequestContext(c), userIDFromContext(c), c.Params("id"), c.Params("messageId")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "message deleted", nil)
}

func (h *MessageHandler) typing(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	userID := userIDFromContext(c)

	if !h.service.IsMember(withRequestContext(c), conversationID, userID) {
		return utils.SendError(c, fiber.StatusForbidden, service.ErrNotConversationMember.Error())
	}

	var payload dto.TypingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.service.SetTyping(withRequestContext(c), userID, localString(c, "user_name"), conversationID, payload.IsTyping); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "typing updated", nil)
}

func (h *MessageHandler) typingStatus(c *fiber.Ctx) error {
	conversationID := c.Params("id")
	if !h.service.IsMember(withRequestContext(c), conversationID, userIDFromContext(c)) {
		return utils.SendError(c, fiber.StatusForbidden, service.ErrNotConversationMember.Error())
	}

	status, err := h.service.TypingStatus(withRequestContext(c), conversationID)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "typing status", status)
}

package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/middleware"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/service"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func userIDFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_id"); v != nil {
		switch id := v.(type) {
		case string:
			return strings.TrimSpace(id)
		case fmt.Stringer:
			return strings.TrimSpace(id.String())
		}
	}
	return ""
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func localString(c *fiber.Ctx, key string) string {
	if v := c.Locals(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// actorFromContext rebuilds the acting user from the JWT claims stashed in
// request locals. Services that denormalize author fields read from this.
func actorFromContext(c *fiber.Ctx) models.User {
	return models.User{
		ID:        userIDFromContext(c),
		Name:      localString(c, "user_name"),
		Email:     localString(c, "user_email"),
		AvatarURL: localString(c, "user_avatar"),
		Role:      userRoleFromContext(c),
	}
}

func withRequestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

func websocketUserID(conn *websocket.Conn) string {
	if v := conn.Locals("user_id"); v != nil {
		if id, ok := v.(string); ok {
			return strings.TrimSpace(id)
		}
	}
	return ""
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// statusForError maps service failures onto HTTP statuses so handlers stay
// thin. Anything unmapped is a 500.
func statusForError(err error) int {
	switch {
	case isValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, service.ErrMessageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefresh),
		errors.Is(err, service.ErrInvalidResetToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotConversationMember),
		errors.Is(err, service.ErrNotGroupAdmin),
		errors.Is(err, service.ErrNotFriends),
		errors.Is(err, service.ErrFriendRequestNotYours),
		errors.Is(err, service.ErrNotMessageSender),
		errors.Is(err, service.ErrNotAuthor),
		errors.Is(err, service.ErrNotUploader),
		errors.Is(err, service.ErrNotOrganizer):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrFriendRequestExists),
		errors.Is(err, service.ErrAlreadyFriends),
		errors.Is(err, service.ErrFriendRequestSettled),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrCreatorImmutable):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrSelfFriendRequest),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrWrongPost),
		errors.Is(err, service.ErrNotGroupConversation),
		errors.Is(err, service.ErrAnswerCountMismatch):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrUploadTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUploadTypeNotAllowed):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrQuizGenerationFailed),
		errors.Is(err, service.ErrDraftingUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

var (
	ErrNotConversationMember = errors.New("not a member of this conversation")
	ErrNotGroupAdmin         = errors.New("group admin role required")
	ErrNotGroupConversation  = errors.New("operation only valid for group conversations")
	ErrNotFriends            = errors.New("users are not friends")
	ErrCreatorImmutable      = errors.New("group creator cannot be demoted or removed")
	ErrAlreadyMember         = errors.New("user is already a member")
)

// ConversationService manages private and group conversations.
type ConversationService interface {
	OpenPrivate(ctx context.Context, userID string, payload dto.PrivateConversationCreate) (dto.ConversationResponse, error)
	CreateGroup(ctx context.Context, creatorID string, payload dto.GroupCreateRequest) (dto.ConversationResponse, error)
	List(ctx context.Context, userID string) ([]dto.ConversationResponse, error)
	Get(ctx context.Context, userID, conversationID string) (dto.ConversationResponse, error)
	UpdateGroup(ctx context.Context, userID, conversationID string, payload dto.GroupUpdateRequest) (dto.ConversationResponse, error)
	AddMember(ctx context.Context, actorID, conversationID string, payload dto.GroupMemberRequest) error
	RemoveMember(ctx context.Context, actorID, conversationID, memberID string) error
	SetAdmin(ctx context.Context, actorID, conversationID, memberID string, isAdmin bool) error
	Leave(ctx context.Context, userID, conversationID string) error
}

type conversationService struct {
	conversations repository.ConversationRepository
	social        repository.SocialRepository
	users         repository.UserRepository
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewConversationService constructs a conversation service.
func NewConversationService(conversations repository.ConversationRepository, social repository.SocialRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) ConversationService {
	return &conversationService{
		conversations: conversations,
		social:        social,
		users:         users,
		validator:     validate,
		logger:        logger.With().Str("component", "conversation_service").Logger(),
	}
}

// OpenPrivate returns the direct conversation between the caller and a
// friend, creating it if it does not exist. The conversation ID is derived
// from the ordered user-ID pair, so concurrent opens converge on one row.
func (s *conversationService) OpenPrivate(ctx context.Context, userID string, payload dto.PrivateConversationCreate) (dto.ConversationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ConversationResponse{}, err
	}

	friends, err := s.social.AreFriends(ctx, userID, payload.FriendID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}
	if !friends {
		return dto.ConversationResponse{}, ErrNotFriends
	}

	caller, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}
	friend, err := s.users.GetByID(ctx, payload.FriendID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}

	conversation := models.Conversation{
		ID:        models.PrivateConversationID(userID, payload.FriendID),
		Type:      models.ConversationPrivate,
		CreatedBy: userID,
		Members: []models.ConversationMember{
			memberFromUser("", caller, false),
			memberFromUser("", friend, false),
		},
	}

	created, err := s.conversations.CreateIfAbsent(ctx, &conversation)
	if err != nil {
		return dto.ConversationResponse{}, err
	}
	if created {
		s.logger.Info().Str("conversation_id", conversation.ID).Msg("private conversation created")
	}

	full, err := s.conversations.GetWithMembers(ctx, conversation.ID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}

	return dto.NewConversationResponse(full, userID), nil
}

func (s *conversationService) CreateGroup(ctx context.Context, creatorID string, payload dto.GroupCreateRequest) (dto.ConversationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ConversationResponse{}, err
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}

	conversation := models.Conversation{
		ID:          uuid.NewString(),
		Type:        models.ConversationGroup,
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
		IconURL:     payload.IconURL,
		CreatedBy:   creatorID,
	}

	members := []models.ConversationMember{memberFromUser(conversation.ID, creator, true)}
	for _, memberID := range payload.MemberIDs {
		if memberID == creatorID {
			continue
		}
		user, err := s.users.GetByID(ctx, memberID)
		if err != nil {
			return dto.ConversationResponse{}, err
		}
		members = append(members, memberFromUser(conversation.ID, user, false))
	}
	conversation.Members = members

	if err := s.conversations.Create(ctx, &conversation); err != nil {
		return dto.ConversationResponse{}, err
	}

	s.logger.Info().Str("conversation_id", conversation.ID).Int("members", len(members)).Msg("group created")

	return dto.NewConversationResponse(conversation, creatorID), nil
}

func (s *conversationService) List(ctx context.Context, userID string) ([]dto.ConversationResponse, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		responses = append(responses, dto.NewConversationResponse(conversation, userID))
	}
	return responses, nil
}

func (s *conversationService) Get(ctx context.Context, userID, conversationID string) (dto.ConversationResponse, error) {
	if _, err := s.requireMember(ctx, conversationID, userID); err != nil {
		return dto.ConversationResponse{}, err
	}

	conversation, err := s.conversations.GetWithMembers(ctx, conversationID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}
	return dto.NewConversationResponse(conversation, userID), nil
}

func (s *conversationService) UpdateGroup(ctx context.Context, userID, conversationID string, payload dto.GroupUpdateRequest) (dto.ConversationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ConversationResponse{}, err
	}
	if err := s.requireGroupAdmin(ctx, conversationID, userID); err != nil {
		return dto.ConversationResponse{}, err
	}

	fields := map[string]interface{}{}
	if payload.Name != nil {
		fields["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Description != nil {
		fields["description"] = strings.TrimSpace(*payload.Description)
	}
	if payload.IconURL != nil {
		fields["icon_url"] = *payload.IconURL
	}

	if len(fields) > 0 {
		if err := s.conversations.UpdateInfo(ctx, conversationID, fields); err != nil {
			return dto.ConversationResponse{}, err
		}
	}

	conversation, err := s.conversations.GetWithMembers(ctx, conversationID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}
	return dto.NewConversationResponse(conversation, userID), nil
}

func (s *conversationService) AddMember(ctx context.Context, actorID, conversationID string, payload dto.GroupMemberRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}
	if err := s.requireGroupAdmin(ctx, conversationID, actorID); err != nil {
		return err
	}

	if _, err := s.conversations.Member(ctx, conversationID, payload.UserID); err == nil {
		return ErrAlreadyMember
	}

	user, err := s.users.GetByID(ctx, payload.UserID)
	if err != nil {
		return err
	}

	member := memberFromUser(conversationID, user, false)
	return s.conversations.AddMember(ctx, &member)
}

func (s *conversationService) RemoveMember(ctx context.Context, actorID, conversationID, memberID string) error {
	if err := s.requireGroupAdmin(ctx, conversationID, actorID); err != nil {
		return err
	}

	conversation, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if memberID == conversation.CreatedBy {
		return ErrCreatorImmutable
	}

	return s.conversations.RemoveMember(ctx, conversationID, memberID)
}

func (s *conversationService) SetAdmin(ctx context.Context, actorID, conversationID, memberID string, isAdmin bool) error {
	if err := s.requireGroupAdmin(ctx, conversationID, actorID); err != nil {
		return err
	}

	conversation, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if memberID == conversation.CreatedBy && !isAdmin {
		return ErrCreatorImmutable
	}

	if _, err := s.conversations.Member(ctx, conversationID, memberID); err != nil {
		return ErrNotConversationMember
	}

	return s.conversations.SetAdmin(ctx, conversationID, memberID, isAdmin)
}

// Leave removes the caller from a group. The last member leaving deletes
// the conversation and its history rather than stranding an empty group.
func (s *conversationService) Leave(ctx context.Context, userID, conversationID string) error {
	conversation, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if conversation.Type != models.ConversationGroup {
		return ErrNotGroupConversation
	}
	if _, err := s.requireMember(ctx, conversationID, userID); err != nil {
		return err
	}

	if err := s.conversations.RemoveMember(ctx, conversationID, userID); err != nil {
		return err
	}

	remaining, err := s.conversations.MemberCount(ctx, conversationID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		s.logger.Info().Str("conversation_id", conversationID).Msg("last member left, deleting group")
		return s.conversations.Delete(ctx, conversationID)
	}

	return nil
}

func (s *conversationService) requireMember(ctx context.Context, conversationID, userID string) (models.ConversationMember, error) {
	member, err := s.conversations.Member(ctx, conversationID, userID)
	if err != nil {
		return models.ConversationMember{}, ErrNotConversationMember
	}
	return member, nil
}

func (s *conversationService) requireGroupAdmin(ctx context.Context, conversationID, userID string) error {
	conversation, err := s.conversations.Get(ctx, conversationID)
	if err != nil {
		return err
	}
	if conversation.Type != models.ConversationGroup {
		return ErrNotGroupConversation
	}

	member, err := s.requireMember(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !member.IsAdmin {
		return ErrNotGroupAdmin
	}
	return nil
}

func memberFromUser(conversationID string, user models.User, isAdmin bool) models.ConversationMember {
	return models.ConversationMember{
		ConversationID: conversationID,
		UserID:         user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Avatar:         user.AvatarURL,
		IsAdmin:        isAdmin,
		JoinedAt:       time.Now(),
	}
}

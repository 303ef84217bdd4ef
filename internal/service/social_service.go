package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

var (
	ErrFriendRequestExists   = errors.New("friend request already pending")
	ErrAlreadyFriends        = errors.New("users are already friends")
	ErrSelfFriendRequest     = errors.New("cannot send a friend request to yourself")
	ErrFriendRequestSettled  = errors.New("friend request already settled")
	ErrFriendRequestNotYours = errors.New("friend request does not involve you")
)

const presencePrefix = "presence:"

// SocialService manages friend requests, friendships and presence.
type SocialService interface {
	SendRequest(ctx context.Context, senderID string, payload dto.FriendRequestCreate) (dto.FriendRequestResponse, error)
	AcceptRequest(ctx context.Context, userID, requestID string) error
	DeclineRequest(ctx context.Context, userID, requestID string) error
	CancelRequest(ctx context.Context, userID, requestID string) error
	ListIncoming(ctx context.Context, userID string) ([]dto.FriendRequestResponse, error)
	ListOutgoing(ctx context.Context, userID string) ([]dto.FriendRequestResponse, error)
	ListFriends(ctx context.Context, userID string) ([]dto.FriendResponse, error)
	RemoveFriend(ctx context.Context, userID, friendID string) error
	SearchUsers(ctx context.Context, callerID, query string, limit int) ([]dto.UserResponse, error)
	Heartbeat(ctx context.Context, userID string) error
	Presence(ctx context.Context, userIDs []string) ([]dto.PresenceResponse, error)
}

type socialService struct {
	social      repository.SocialRepository
	users       repository.UserRepository
	redis       *redis.Client
	presenceTTL time.Duration
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewSocialService constructs a social service.
func NewSocialService(social repository.SocialRepository, users repository.UserRepository, redisClient *redis.Client, presenceTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) SocialService {
	return &socialService{
		social:      social,
		users:       users,
		redis:       redisClient,
		presenceTTL: presenceTTL,
		validator:   validate,
		logger:      logger.With().Str("component", "social_service").Logger(),
	}
}

func (s *socialService) SendRequest(ctx context.Context, senderID string, payload dto.FriendRequestCreate) (dto.FriendRequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FriendRequestResponse{}, err
	}
	if senderID == payload.ReceiverID {
		return dto.FriendRequestResponse{}, ErrSelfFriendRequest
	}

	friends, err := s.social.AreFriends(ctx, senderID, payload.ReceiverID)
	if err != nil {
		return dto.FriendRequestResponse{}, err
	}
	if friends {
		return dto.FriendRequestResponse{}, ErrAlreadyFriends
	}

	pending, err := s.social.PendingBetween(ctx, senderID, payload.ReceiverID)
	if err != nil {
		return dto.FriendRequestResponse{}, err
	}
	if pending {
		return dto.FriendRequestResponse{}, ErrFriendRequestExists
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return dto.FriendRequestResponse{}, err
	}
	receiver, err := s.users.GetByID(ctx, payload.ReceiverID)
	if err != nil {
		return dto.FriendRequestResponse{}, err
	}

	request := models.FriendRequest{
		ID:             uuid.NewString(),
		SenderID:       sender.ID,
		SenderName:     sender.Name,
		SenderAvatar:   sender.AvatarURL,
		ReceiverID:     receiver.ID,
		ReceiverName:   receiver.Name,
		ReceiverAvatar: receiver.AvatarURL,
		Status:         models.FriendRequestPending,
	}

	if err := s.social.CreateRequest(ctx, &request); err != nil {
		return dto.FriendRequestResponse{}, err
	}

	s.logger.Info().Str("request_id", request.ID).Str("sender_id", senderID).Msg("friend request sent")

	return dto.NewFriendRequestResponse(request), nil
}

// AcceptRequest settles a pending request and creates both friendship edges
// in one transaction, so either both users list each other or neither does.
func (s *socialService) AcceptRequest(ctx context.Context, userID, requestID string) error {
	request, err := s.social.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.ReceiverID != userID {
		return ErrFriendRequestNotYours
	}
	if request.Status.Terminal() {
		return ErrFriendRequestSettled
	}

	if err := s.social.AcceptRequest(ctx, request); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendRequestSettled
		}
		return err
	}

	return nil
}

func (s *socialService) DeclineRequest(ctx context.Context, userID, requestID string) error {
	return s.settleRequest(ctx, userID, requestID, models.FriendRequestDeclined, false)
}

func (s *socialService) CancelRequest(ctx context.Context, userID, requestID string) error {
	return s.settleRequest(ctx, userID, requestID, models.FriendRequestCancelled, true)
}

func (s *socialService) settleRequest(ctx context.Context, userID, requestID string, status models.FriendRequestStatus, bySender bool) error {
	request, err := s.social.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}

	actor := request.ReceiverID
	if bySender {
		actor = request.SenderID
	}
	if actor != userID {
		return ErrFriendRequestNotYours
	}
	if request.Status.Terminal() {
		return ErrFriendRequestSettled
	}

	return s.social.UpdateRequestStatus(ctx, requestID, status)
}

func (s *socialService) ListIncoming(ctx context.Context, userID string) ([]dto.FriendRequestResponse, error) {
	requests, err := s.social.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewFriendRequestResponseSlice(requests), nil
}

func (s *socialService) ListOutgoing(ctx context.Context, userID string) ([]dto.FriendRequestResponse, error) {
	requests, err := s.social.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewFriendRequestResponseSlice(requests), nil
}

func (s *socialService) ListFriends(ctx context.Context, userID string) ([]dto.FriendResponse, error) {
	edges, err := s.social.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.FriendResponse, 0, len(edges))
	for _, edge := range edges {
		online, _ := s.isOnline(ctx, edge.FriendID)
		responses = append(responses, dto.NewFriendResponse(edge, online))
	}
	return responses, nil
}

func (s *socialService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	return s.social.RemoveFriendship(ctx, userID, friendID)
}

func (s *socialService) SearchUsers(ctx context.Context, callerID, query string, limit int) ([]dto.UserResponse, error) {
	users, err := s.users.Search(ctx, query, callerID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

// Heartbeat refreshes the caller's presence lease. Presence decays on its
// own when the client stops calling; there is no explicit "go offline".
func (s *socialService) Heartbeat(ctx context.Context, userID string) error {
	if err := s.redis.Set(ctx, presencePrefix+userID, "1", s.presenceTTL).Err(); err != nil {
		return err
	}
	return s.users.UpdateLastSeen(ctx, userID, time.Now())
}

func (s *socialService) Presence(ctx context.Context, userIDs []string) ([]dto.PresenceResponse, error) {
	responses := make([]dto.PresenceResponse, 0, len(userIDs))
	for _, id := range userIDs {
		online, err := s.isOnline(ctx, id)
		if err != nil {
			return nil, err
		}

		var lastSeen *time.Time
		if user, err := s.users.GetByID(ctx, id); err == nil {
			lastSeen = user.LastSeen
		}

		responses = append(responses, dto.PresenceResponse{UserID: id, IsOnline: online, LastSeen: lastSeen})
	}
	return responses, nil
}

func (s *socialService) isOnline(ctx context.Context, userID string) (bool, error) {
	count, err := s.redis.Exists(ctx, presencePrefix+userID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

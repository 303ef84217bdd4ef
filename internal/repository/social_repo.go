package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// SocialRepository persists friend requests and friendship edges.
type SocialRepository interface {
	CreateRequest(ctx context.Context, request *models.FriendRequest) error
	GetRequest(ctx context.Context, id string) (models.FriendRequest, error)
	PendingBetween(ctx context.Context, userA, userB string) (bool, error)
	UpdateRequestStatus(ctx context.Context, id string, status models.FriendRequestStatus) error
	ListIncoming(ctx context.Context, userID string) ([]models.FriendRequest, error)
	ListOutgoing(ctx context.Context, userID string) ([]models.FriendRequest, error)

	AreFriends(ctx context.Context, userA, userB string) (bool, error)
	AcceptRequest(ctx context.Context, request models.FriendRequest) error
	RemoveFriendship(ctx context.Context, userA, userB string) error
	ListFriends(ctx context.Context, userID string) ([]models.FriendEdge, error)
}

type socialRepository struct {
	db *gorm.DB
}

// NewSocialRepository constructs a GORM-backed social graph repository.
func NewSocialRepository(db *gorm.DB) SocialRepository {
	return &socialRepository{db: db}
}

func (r *socialRepository) CreateRequest(ctx context.Context, request *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *socialRepository) GetRequest(ctx context.Context, id string) (models.FriendRequest, error) {
	var request models.FriendRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return models.FriendRequest{}, err
	}
	return request, nil
}

func (r *socialRepository) PendingBetween(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("status = ?", models.FriendRequestPending).
		Where(
			r.db.Where("sender_id = ? AND receiver_id = ?", userA, userB).
				Or("sender_id = ? AND receiver_id = ?", userB, userA),
		).
		Count(&count).Error
	return count > 0, err
}

func (r *socialRepository) UpdateRequestStatus(ctx context.Context, id string, status models.FriendRequestStatus) error {
	return r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (r *socialRepository) ListIncoming(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *socialRepository) ListOutgoing(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND status = ?", userID, models.FriendRequestPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *socialRepository) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FriendEdge{}).
		Where("user_id = ? AND friend_id = ?", userA, userB).
		Count(&count).Error
	return count > 0, err
}

// AcceptRequest marks the request accepted and writes the friendship edge for
// both participants in one transaction. Splitting these writes would risk an
// asymmetric graph under partial failure.
func (r *socialRepository) AcceptRequest(ctx context.Context, request models.FriendRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND status = ?", request.ID, models.FriendRequestPending).
			Update("status", models.FriendRequestAccepted)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		edges := []models.FriendEdge{
			{
				UserID:       request.ReceiverID,
				FriendID:     request.SenderID,
				FriendName:   request.SenderName,
				FriendAvatar: request.SenderAvatar,
			},
			{
				UserID:       request.SenderID,
				FriendID:     request.ReceiverID,
				FriendName:   request.ReceiverName,
				FriendAvatar: request.ReceiverAvatar,
			},
		}
		return tx.Create(&edges).Error
	})
}

// RemoveFriendship deletes both directions of the edge in one transaction.
func (r *socialRepository) RemoveFriendship(ctx context.Context, userA, userB string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.
			Where("user_id = ? AND friend_id = ?", userA, userB).
			Or("user_id = ? AND friend_id = ?", userB, userA).
			Delete(&models.FriendEdge{}).Error
	})
}

func (r *socialRepository) ListFriends(ctx context.Context, userID string) ([]models.FriendEdge, error) {
	var edges []models.FriendEdge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("friend_name ASC").
		Find(&edges).Error
	return edges, err
}

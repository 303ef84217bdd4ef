package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// ConversationRepository persists conversations and their membership rows.
type ConversationRepository interface {
	CreateIfAbsent(ctx context.Context, conversation *models.Conversation) (created bool, err error)
	Create(ctx context.Context, conversation *models.Conversation) error
	Get(ctx context.Context, id string) (models.Conversation, error)
	GetWithMembers(ctx context.Context, id string) (models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	Member(ctx context.Context, conversationID, userID string) (models.ConversationMember, error)
	AddMember(ctx context.Context, member *models.ConversationMember) error
	RemoveMember(ctx context.Context, conversationID, userID string) error
	SetAdmin(ctx context.Context, conversationID, userID string, isAdmin bool) error
	UpdateInfo(ctx context.Context, conversationID string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	MemberCount(ctx context.Context, conversationID string) (int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository constructs a GORM-backed conversation repository.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// CreateIfAbsent inserts the conversation and its members, doing nothing when
// a row with the same ID already exists. Private conversations use a
// deterministic ID derived from the member pair, so a concurrent duplicate
// create collides here instead of producing a second conversation.
func (r *conversationRepository) CreateIfAbsent(ctx context.Context, conversation *models.Conversation) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		members := conversation.Members
		conversation.Members = nil

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(conversation)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		created = true
		for i := range members {
			members[i].ConversationID = conversation.ID
		}
		return tx.Create(&members).Error
	})
	return created, err
}

func (r *conversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *conversationRepository) Get(ctx context.Context, id string) (models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

func (r *conversationRepository) GetWithMembers(ctx context.Context, id string) (models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).Preload("Members").First(&conversation, "id = ?", id).Error; err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id AND cm.user_id = ?", userID).
		Preload("Members").
		Order("conversations.last_message_time DESC NULLS LAST").
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) Member(ctx context.Context, conversationID, userID string) (models.ConversationMember, error) {
	var member models.ConversationMember
	err := r.db.WithContext(ctx).
		First(&member, "conversation_id = ? AND user_id = ?", conversationID, userID).Error
	if err != nil {
		return models.ConversationMember{}, err
	}
	return member, nil
}

func (r *conversationRepository) AddMember(ctx context.Context, member *models.ConversationMember) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(member).Error
}

// RemoveMember drops the membership row. Admin status lives on the row, so
// removal also removes the member from the admin set.
func (r *conversationRepository) RemoveMember(ctx context.Context, conversationID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Delete(&models.ConversationMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *conversationRepository) SetAdmin(ctx context.Context, conversationID, userID string, isAdmin bool) error {
	result := r.db.WithContext(ctx).Model(&models.ConversationMember{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *conversationRepository) UpdateInfo(ctx context.Context, conversationID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(fields).Error
}

func (r *conversationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&models.ConversationMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Conversation{}, "id = ?", id).Error
	})
}

func (r *conversationRepository) MemberCount(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ConversationMember{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}

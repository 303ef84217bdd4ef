package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// MessageRepository persists conversation messages.
type MessageRepository interface {
	Append(ctx context.Context, message *models.Message, preview string) error
	Get(ctx context.Context, conversationID, messageID string) (models.Message, error)
	ListByConversation(ctx context.Context, conversationID string, before time.Time, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, conversationID, userID string) error
	SoftDelete(ctx context.Context, conversationID, messageID string) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository constructs a GORM-backed message repository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Append inserts the message, refreshes the conversation's last-message
// preview and bumps every other member's unread counter, all in one
// transaction. The counter update is a SQL-side increment so concurrent
// sends from different members never lose updates.
func (r *messageRepository) Append(ctx context.Context, message *models.Message, preview string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Updates(map[string]interface{}{
				"last_message":        preview,
				"last_message_sender": message.SenderName,
				"last_message_time":   message.CreatedAt,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.ConversationMember{}).
			Where("conversation_id = ? AND user_id <> ?", message.ConversationID, message.SenderID).
			UpdateColumn("unread_count", gorm.Expr("unread_count + 1")).
			Error
	})
}

func (r *messageRepository) Get(ctx context.Context, conversationID, messageID string) (models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		First(&message, "conversation_id = ? AND id = ?", conversationID, messageID).Error
	if err != nil {
		return models.Message{}, err
	}
	return message, nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID string, before time.Time, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}

	var messages []models.Message
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}

	// Reverse to chronological order ascending for clients.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// MarkRead zeroes the caller's unread counter and appends them to the read_by
// list of messages they had not yet seen. Read receipts are conversation
// level; the read_by append is best-effort bookkeeping done in the same
// transaction.
func (r *messageRepository) MarkRead(ctx context.Context, conversationID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ConversationMember{}).
			Where("conversation_id = ? AND user_id = ?", conversationID, userID).
			UpdateColumn("unread_count", 0).
			Error; err != nil {
			return err
		}

		var unseen []models.Message
		if err := tx.
			Where("conversation_id = ? AND sender_id <> ?", conversationID, userID).
			Order("created_at DESC").
			Limit(200).
			Find(&unseen).Error; err != nil {
			return err
		}

		for i := range unseen {
			if containsString(unseen[i].ReadBy, userID) {
				continue
			}
			unseen[i].ReadBy = append(unseen[i].ReadBy, userID)
			if err := tx.Model(&models.Message{}).
				Where("id = ?", unseen[i].ID).
				UpdateColumn("read_by", unseen[i].ReadBy).
				Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SoftDelete flips the deleted flag and blanks the content. The row is never
// removed so ordering and reply snapshots stay intact.
func (r *messageRepository) SoftDelete(ctx context.Context, conversationID, messageID string) error {
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND id = ? AND is_deleted = ?", conversationID, messageID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"content":    "",
			"file_url":   "",
			"file_name":  "",
			"file_size":  0,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

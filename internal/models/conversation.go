package models

import (
	"fmt"
	"time"
)

// Conversation kinds.
const (
	ConversationPrivate = "private"
	ConversationGroup   = "group"
)

// Conversation is a private (two member) or group (N member) messaging thread.
// The last-message columns are a denormalized preview for conversation lists.
type Conversation struct {
	ID                string     `gorm:"primaryKey;size:160" json:"id"`
	Type              string     `gorm:"size:16;not null" json:"type"`
	Name              string     `gorm:"size:255" json:"name"`
	Description       string     `gorm:"type:text" json:"description"`
	IconURL           string     `gorm:"size:512" json:"icon_url"`
	CreatedBy         string     `gorm:"size:64" json:"created_by"`
	LastMessage       string     `gorm:"size:512" json:"last_message"`
	LastMessageSender string     `gorm:"size:64" json:"last_message_sender"`
	LastMessageTime   *time.Time `gorm:"index" json:"last_message_time"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Members []ConversationMember `gorm:"foreignKey:ConversationID" json:"members,omitempty"`
}

// ConversationMember is a membership row carrying the member's denormalized
// display details and their personal unread counter.
type ConversationMember struct {
	ConversationID string    `gorm:"primaryKey;size:160" json:"conversation_id"`
	UserID         string    `gorm:"primaryKey;size:64;index" json:"user_id"`
	Name           string    `gorm:"size:255" json:"name"`
	Email          string    `gorm:"size:255" json:"email"`
	Avatar         string    `gorm:"size:512" json:"avatar"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"is_admin"`
	UnreadCount    int       `gorm:"not null;default:0" json:"unread_count"`
	JoinedAt       time.Time `json:"joined_at"`
}

// PrivateConversationID derives the deterministic identifier for a direct
// conversation between two users. Both orderings of the pair map to the same
// ID, so concurrent create attempts collide on one row instead of producing
// duplicates.
func PrivateConversationID(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("dm:%s:%s", userA, userB)
}

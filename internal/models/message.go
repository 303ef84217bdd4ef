package models

import (
	"time"

	"gorm.io/datatypes"
)

// Message types.
const (
	MessageText   = "text"
	MessageImage  = "image"
	MessageFile   = "file"
	MessageSystem = "system"
)

// Message is a single entry in a conversation. Sender display fields are
// denormalized; reply_to_* is a snapshot captured at reply time so the quote
// survives deletion of the original. Deletion is a soft flag: the row stays to
// preserve ordering and reply references.
type Message struct {
	ID             string                       `gorm:"primaryKey;size:64" json:"id"`
	ConversationID string                       `gorm:"size:160;index:idx_msg_conv_time,priority:1;not null" json:"conversation_id"`
	SenderID       string                       `gorm:"size:64;index" json:"sender_id"`
	SenderName     string                       `gorm:"size:255" json:"sender_name"`
	SenderAvatar   string                       `gorm:"size:512" json:"sender_avatar"`
	Content        string                       `gorm:"type:text" json:"content"`
	Type           string                       `gorm:"size:16;not null;default:text" json:"type"`
	FileURL        string                       `gorm:"size:512" json:"file_url,omitempty"`
	FileName       string                       `gorm:"size:255" json:"file_name,omitempty"`
	FileSize       int64                        `json:"file_size,omitempty"`
	ReplyToID      string                       `gorm:"size:64" json:"reply_to_id,omitempty"`
	ReplyToSender  string                       `gorm:"size:255" json:"reply_to_sender,omitempty"`
	ReplyToContent string                       `gorm:"size:512" json:"reply_to_content,omitempty"`
	ReadBy         datatypes.JSONSlice[string]  `json:"read_by"`
	IsDeleted      bool                         `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt      time.Time                    `gorm:"index:idx_msg_conv_time,priority:2" json:"created_at"`
}

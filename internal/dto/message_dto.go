package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// MessageSendRequest posts a message into a conversation.
type MessageSendRequest struct {
	Content   string `json:"content" validate:"required_without=FileURL,max=4000"`
	Type      string `json:"type" validate:"omitempty,oneof=text image file system"`
	FileURL   string `json:"file_url" validate:"omitempty,url,max=512"`
	FileName  string `json:"file_name" validate:"omitempty,max=255"`
	FileSize  int64  `json:"file_size" validate:"omitempty,min=0"`
	ReplyToID string `json:"reply_to_id" validate:"omitempty,max=64"`
}

// MessageHistoryQuery filters a conversation history page.
type MessageHistoryQuery struct {
	Before *time.Time `query:"before"`
	Limit  int        `query:"limit" validate:"omitempty,min=1,max=100"`
}

// TypingRequest flags the caller as typing (or not) in a conversation.
type TypingRequest struct {
	IsTyping bool `json:"is_typing"`
}

// MessageResponse is the serialized representation of a message. Deleted
// messages never expose their original content.
type MessageResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	SenderName     string    `json:"sender_name"`
	SenderAvatar   string    `json:"sender_avatar,omitempty"`
	Content        string    `json:"content"`
	Type           string    `json:"type"`
	FileURL        string    `json:"file_url,omitempty"`
	FileName       string    `json:"file_name,omitempty"`
	FileSize       int64     `json:"file_size,omitempty"`
	ReplyToID      string    `json:"reply_to_id,omitempty"`
	ReplyToSender  string    `json:"reply_to_sender,omitempty"`
	ReplyToContent string    `json:"reply_to_content,omitempty"`
	ReadBy         []string  `json:"read_by"`
	IsDeleted      bool      `json:"is_deleted"`
	CreatedAt      time.Time `json:"created_at"`
}

// FileUploadResponse carries the hosted file details for a follow-up send.
type FileUploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	MimeType string `json:"mime_type"`
}

// TypingStatusResponse lists who is currently typing in a conversation.
type TypingStatusResponse struct {
	ConversationID string            `json:"conversation_id"`
	Typing         map[string]string `json:"typing"`
}

// Socket event names pushed to connected clients.
const (
	SocketEventMessage = "message"
	SocketEventTyping  = "typing"
	SocketEventDeleted = "message_deleted"
)

// SocketInbound is a frame a websocket client sends upstream.
type SocketInbound struct {
	Event    string              `json:"event" validate:"required,oneof=message typing"`
	Message  *MessageSendRequest `json:"message,omitempty"`
	IsTyping bool                `json:"is_typing,omitempty"`
}

// SocketEvent is a frame pushed downstream to websocket clients.
type SocketEvent struct {
	Event          string                `json:"event"`
	ConversationID string                `json:"conversation_id"`
	Message        *MessageResponse      `json:"message,omitempty"`
	Typing         *TypingStatusResponse `json:"typing,omitempty"`
	MessageID      string                `json:"message_id,omitempty"`
}

// NewMessageResponse converts a message model into a DTO.
func NewMessageResponse(message models.Message) MessageResponse {
	response := MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		SenderName:     message.SenderName,
		SenderAvatar:   message.SenderAvatar,
		Content:        message.Content,
		Type:           message.Type,
		FileURL:        message.FileURL,
		FileName:       message.FileName,
		FileSize:       message.FileSize,
		ReplyToID:      message.ReplyToID,
		ReplyToSender:  message.ReplyToSender,
		ReplyToContent: message.ReplyToContent,
		ReadBy:         append([]string{}, message.ReadBy...),
		IsDeleted:      message.IsDeleted,
		CreatedAt:      message.CreatedAt,
	}

	if message.IsDeleted {
		response.Content = ""
		response.FileURL = ""
		response.FileName = ""
		response.FileSize = 0
	}

	return response
}

// NewMessageResponseSlice converts a slice of messages into DTOs.
func NewMessageResponseSlice(messages []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewMessageResponse(message))
	}
	return out
}

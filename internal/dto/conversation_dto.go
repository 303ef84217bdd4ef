package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// PrivateConversationCreate starts (or resolves) a direct conversation.
type PrivateConversationCreate struct {
	FriendID string `json:"friend_id" validate:"required,max=64"`
}

// GroupCreateRequest creates a group conversation.
type GroupCreateRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	IconURL     string   `json:"icon_url" validate:"omitempty,url,max=512"`
	MemberIDs   []string `json:"member_ids" validate:"required,min=1,dive,required,max=64"`
}

// GroupMemberRequest targets a member for add/remove/promote/demote.
type GroupMemberRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// GroupUpdateRequest mutates a group's display fields.
type GroupUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IconURL     *string `json:"icon_url" validate:"omitempty,url,max=512"`
}

// ConversationMemberResponse is a serialized membership row.
type ConversationMemberResponse struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	UnreadCount int       `json:"unread_count"`
	JoinedAt    time.Time `json:"joined_at"`
}

// ConversationResponse is the conversation list/detail shape. DisplayName and
// DisplayAvatar resolve to the other member for private conversations and to
// the group's own name and icon for groups.
type ConversationResponse struct {
	ID                string                       `json:"id"`
	Type              string                       `json:"type"`
	DisplayName       string                       `json:"display_name"`
	DisplayAvatar     string                       `json:"display_avatar,omitempty"`
	Description       string                       `json:"description,omitempty"`
	CreatedBy         string                       `json:"created_by,omitempty"`
	LastMessage       string                       `json:"last_message,omitempty"`
	LastMessageSender string                       `json:"last_message_sender,omitempty"`
	LastMessageTime   *time.Time                   `json:"last_message_time,omitempty"`
	UnreadCount       int                          `json:"unread_count"`
	Members           []ConversationMemberResponse `json:"members,omitempty"`
	CreatedAt         time.Time                    `json:"created_at"`
}

// NewConversationMemberResponse converts a membership row into a DTO.
func NewConversationMemberResponse(member models.ConversationMember) ConversationMemberResponse {
	return ConversationMemberResponse{
		UserID:      member.UserID,
		Name:        member.Name,
		Email:       member.Email,
		Avatar:      member.Avatar,
		IsAdmin:     member.IsAdmin,
		UnreadCount: member.UnreadCount,
		JoinedAt:    member.JoinedAt,
	}
}

// NewConversationResponse converts a conversation into the viewer-relative
// DTO: the viewer's own unread count, and display fields derived from the
// other member for private conversations.
func NewConversationResponse(conversation models.Conversation, viewerID string) ConversationResponse {
	response := ConversationResponse{
		ID:                conversation.ID,
		Type:              conversation.Type,
		DisplayName:       conversation.Name,
		DisplayAvatar:     conversation.IconURL,
		Description:       conversation.Description,
		CreatedBy:         conversation.CreatedBy,
		LastMessage:       conversation.LastMessage,
		LastMessageSender: conversation.LastMessageSender,
		LastMessageTime:   conversation.LastMessageTime,
		CreatedAt:         conversation.CreatedAt,
	}

	members := make([]ConversationMemberResponse, 0, len(conversation.Members))
	for _, member := range conversation.Members {
		if member.UserID == viewerID {
			response.UnreadCount = member.UnreadCount
		} else if conversation.Type == models.ConversationPrivate {
			response.DisplayName = member.Name
			response.DisplayAvatar = member.Avatar
		}
		members = append(members, NewConversationMemberResponse(member))
	}
	response.Members = members

	return response
}

// NewConversationResponseSlice converts conversations into viewer-relative DTOs.
func NewConversationResponseSlice(conversations []models.Conversation, viewerID string) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		out = append(out, NewConversationResponse(conversation, viewerID))
	}
	return out
}

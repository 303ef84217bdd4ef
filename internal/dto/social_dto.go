package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// FriendRequestCreate sends a friend request to another user.
type FriendRequestCreate struct {
	ReceiverID string `json:"receiver_id" validate:"required,max=64"`
}

// FriendRequestResponse is a serialized friend request.
type FriendRequestResponse struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Status         string    `json:"status"`
	SenderName     string    `json:"sender_name"`
	SenderAvatar   string    `json:"sender_avatar,omitempty"`
	ReceiverName   string    `json:"receiver_name"`
	ReceiverAvatar string    `json:"receiver_avatar,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// FriendResponse is one entry in a user's friend list.
type FriendResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar,omitempty"`
	IsOnline bool      `json:"is_online"`
	Friended time.Time `json:"friended_at"`
}

// PresenceResponse is the best-effort online indicator for one user.
type PresenceResponse struct {
	UserID   string     `json:"user_id"`
	IsOnline bool       `json:"is_online"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// NewFriendRequestResponse converts a friend request model into a DTO.
func NewFriendRequestResponse(request models.FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:             request.ID,
		SenderID:       request.SenderID,
		ReceiverID:     request.ReceiverID,
		Status:         string(request.Status),
		SenderName:     request.SenderName,
		SenderAvatar:   request.SenderAvatar,
		ReceiverName:   request.ReceiverName,
		ReceiverAvatar: request.ReceiverAvatar,
		CreatedAt:      request.CreatedAt,
	}
}

// NewFriendRequestResponseSlice converts friend requests into DTOs.
func NewFriendRequestResponseSlice(requests []models.FriendRequest) []FriendRequestResponse {
	out := make([]FriendRequestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, NewFriendRequestResponse(request))
	}
	return out
}

// NewFriendResponse converts a friend edge into a DTO, tagged with the
// friend's current presence.
func NewFriendResponse(edge models.FriendEdge, online bool) FriendResponse {
	return FriendResponse{
		UserID:   edge.FriendID,
		Name:     edge.FriendName,
		Avatar:   edge.FriendAvatar,
		IsOnline: online,
		Friended: edge.CreatedAt,
	}
}

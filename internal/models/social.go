package models

import "time"

// FriendRequestStatus enumerates the lifecycle of a friend request.
type FriendRequestStatus string

// Friend request states. Accepted, declined and cancelled are terminal;
// retrying requires a new request.
const (
	FriendRequestPending   FriendRequestStatus = "pending"
	FriendRequestAccepted  FriendRequestStatus = "accepted"
	FriendRequestDeclined  FriendRequestStatus = "declined"
	FriendRequestCancelled FriendRequestStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s FriendRequestStatus) Terminal() bool {
	return s == FriendRequestAccepted || s == FriendRequestDeclined || s == FriendRequestCancelled
}

// FriendRequest records an invitation from one user to another. Sender and
// receiver display fields are denormalized so inbox rendering needs no join.
type FriendRequest struct {
	ID             string              `gorm:"primaryKey;size:64" json:"id"`
	SenderID       string              `gorm:"size:64;index;not null" json:"sender_id"`
	ReceiverID     string              `gorm:"size:64;index;not null" json:"receiver_id"`
	Status         FriendRequestStatus `gorm:"size:20;not null;default:pending" json:"status"`
	SenderName     string              `gorm:"size:255" json:"sender_name"`
	SenderAvatar   string              `gorm:"size:512" json:"sender_avatar"`
	ReceiverName   string              `gorm:"size:255" json:"receiver_name"`
	ReceiverAvatar string              `gorm:"size:512" json:"receiver_avatar"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// FriendEdge is one half of a friendship. Accepting a request writes the edge
// for both participants inside a single transaction, so an edge for A
// referencing B exists exactly when the mirror edge exists.
type FriendEdge struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"size:64;not null;uniqueIndex:idx_friend_pair" json:"user_id"`
	FriendID     string    `gorm:"size:64;not null;uniqueIndex:idx_friend_pair" json:"friend_id"`
	FriendName   string    `gorm:"size:255" json:"friend_name"`
	FriendAvatar string    `gorm:"size:512" json:"friend_avatar"`
	CreatedAt    time.Time `json:"created_at"`
}

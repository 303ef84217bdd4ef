package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Department string `json:"department" validate:"omitempty,max=128"`
	Semester   int    `json:"semester" validate:"omitempty,min=1,max=12"`
}

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// PasswordResetRequest starts a password reset flow.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordResetConfirm completes a password reset with the issued token.
type PasswordResetConfirm struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// ProfileUpdateRequest mutates a user's own profile fields.
type ProfileUpdateRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
	AvatarURL  *string `json:"avatar_url" validate:"omitempty,url,max=512"`
	Department *string `json:"department" validate:"omitempty,max=128"`
	Semester   *int    `json:"semester" validate:"omitempty,min=1,max=12"`
}

// TokenPair carries the issued access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the normalized identity shape exposed to clients.
type UserResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	AvatarURL  string     `json:"avatar_url,omitempty"`
	Department string     `json:"department,omitempty"`
	Semester   int        `json:"semester,omitempty"`
	LastSeen   *time.Time `json:"last_seen,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AuthResponse bundles the user with their tokens after register/login.
type AuthResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		AvatarURL:  user.AvatarURL,
		Department: user.Department,
		Semester:   user.Semester,
		LastSeen:   user.LastSeen,
		CreatedAt:  user.CreatedAt,
	}
}

// NewUserResponseSlice converts a slice of users into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}

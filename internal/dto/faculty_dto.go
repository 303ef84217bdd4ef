package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// FacultyCreateRequest registers a faculty directory entry.
type FacultyCreateRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Designation string   `json:"designation" validate:"omitempty,max=128"`
	Department  string   `json:"department" validate:"required,max=128"`
	Email       string   `json:"email" validate:"required,email,max=255"`
	Office      string   `json:"office" validate:"omitempty,max=128"`
	Courses     []string `json:"courses" validate:"omitempty,max=12,dive,min=1,max=128"`
}

// EmailDraftRequest asks for an AI-drafted email to a faculty member.
type EmailDraftRequest struct {
	Intent string   `json:"intent" validate:"required,min=3,max=500"`
	Points []string `json:"points" validate:"omitempty,max=10,dive,min=1,max=500"`
}

// EmailDraftResponse carries the drafted subject and body.
type EmailDraftResponse struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// FacultyResponse is a serialized directory entry.
type FacultyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Designation string    `json:"designation,omitempty"`
	Department  string    `json:"department"`
	Email       string    `json:"email"`
	Office      string    `json:"office,omitempty"`
	Courses     []string  `json:"courses"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewFacultyResponse converts a faculty model into a DTO.
func NewFacultyResponse(member models.FacultyMember) FacultyResponse {
	return FacultyResponse{
		ID:          member.ID,
		Name:        member.Name,
		Designation: member.Designation,
		Department:  member.Department,
		Email:       member.Email,
		Office:      member.Office,
		Courses:     append([]string{}, member.Courses...),
		CreatedAt:   member.CreatedAt,
	}
}

// NewFacultyResponseSlice converts faculty members into DTOs.
func NewFacultyResponseSlice(members []models.FacultyMember) []FacultyResponse {
	out := make([]FacultyResponse, 0, len(members))
	for _, member := range members {
		out = append(out, NewFacultyResponse(member))
	}
	return out
}

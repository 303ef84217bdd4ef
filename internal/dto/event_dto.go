package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// EventCreateRequest adds a calendar event.
type EventCreateRequest struct {
	Title       string    `json:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description" validate:"omitempty,max=5000"`
	Venue       string    `json:"venue" validate:"omitempty,max=255"`
	Category    string    `json:"category" validate:"omitempty,max=64"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"omitempty,gtfield=StartsAt"`
}

// EventUpdateRequest mutates an event.
type EventUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Venue       *string    `json:"venue" validate:"omitempty,max=255"`
	Category    *string    `json:"category" validate:"omitempty,max=64"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// EventResponse is a serialized event.
type EventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Venue         string    `json:"venue,omitempty"`
	Category      string    `json:"category,omitempty"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at,omitempty"`
	OrganizerID   string    `json:"organizer_id"`
	OrganizerName string    `json:"organizer_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewEventResponse converts an event model into a DTO.
func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		Venue:         event.Venue,
		Category:      event.Category,
		StartsAt:      event.StartsAt,
		EndsAt:        event.EndsAt,
		OrganizerID:   event.OrganizerID,
		OrganizerName: event.OrganizerName,
		CreatedAt:     event.CreatedAt,
	}
}

// NewEventResponseSlice converts events into DTOs.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, event := range events {
		out = append(out, NewEventResponse(event))
	}
	return out
}

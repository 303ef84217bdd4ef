package models

import "time"

// Event is a calendar entry for a campus happening.
type Event struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Venue         string    `gorm:"size:255" json:"venue"`
	Category      string    `gorm:"size:64;index" json:"category"`
	StartsAt      time.Time `gorm:"index;not null" json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	OrganizerID   string    `gorm:"size:64;index" json:"organizer_id"`
	OrganizerName string    `gorm:"size:255" json:"organizer_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

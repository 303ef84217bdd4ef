package models

import (
	"time"

	"gorm.io/datatypes"
)

// Material is a shared study resource backed by a hosted file.
type Material struct {
	ID           string                      `gorm:"primaryKey;size:64" json:"id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Description  string                      `gorm:"type:text" json:"description"`
	Course       string                      `gorm:"size:128;index" json:"course"`
	Semester     int                         `gorm:"index" json:"semester"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	FileURL      string                      `gorm:"size:512;not null" json:"file_url"`
	FileName     string                      `gorm:"size:255" json:"file_name"`
	FileSize     int64                       `json:"file_size"`
	MimeType     string                      `gorm:"size:128" json:"mime_type"`
	UploaderID   string                      `gorm:"size:64;index" json:"uploader_id"`
	UploaderName string                      `gorm:"size:255" json:"uploader_name"`
	Downloads    int                         `gorm:"not null;default:0" json:"downloads"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

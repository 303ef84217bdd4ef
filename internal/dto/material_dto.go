package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// MaterialCreateRequest registers an uploaded study material.
type MaterialCreateRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=255"`
	Description string   `json:"description" validate:"omitempty,max=5000"`
	Course      string   `json:"course" validate:"required,max=128"`
	Semester    int      `json:"semester" validate:"omitempty,min=1,max=12"`
	Tags        []string `json:"tags" validate:"omitempty,max=8,dive,min=1,max=32"`
	FileURL     string   `json:"file_url" validate:"required,url,max=512"`
	FileName    string   `json:"file_name" validate:"required,max=255"`
	FileSize    int64    `json:"file_size" validate:"omitempty,min=0"`
	MimeType    string   `json:"mime_type" validate:"omitempty,max=128"`
}

// MaterialResponse is a serialized study material.
type MaterialResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Course       string    `json:"course"`
	Semester     int       `json:"semester,omitempty"`
	Tags         []string  `json:"tags"`
	FileURL      string    `json:"file_url"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size,omitempty"`
	MimeType     string    `json:"mime_type,omitempty"`
	UploaderID   string    `json:"uploader_id"`
	UploaderName string    `json:"uploader_name"`
	Downloads    int       `json:"downloads"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewMaterialResponse converts a material model into a DTO.
func NewMaterialResponse(material models.Material) MaterialResponse {
	return MaterialResponse{
		ID:           material.ID,
		Title:        material.Title,
		Description:  material.Description,
		Course:       material.Course,
		Semester:     material.Semester,
		Tags:         append([]string{}, material.Tags...),
		FileURL:      material.FileURL,
		FileName:     material.FileName,
		FileSize:     material.FileSize,
		MimeType:     material.MimeType,
		UploaderID:   material.UploaderID,
		UploaderName: material.UploaderName,
		Downloads:    material.Downloads,
		CreatedAt:    material.CreatedAt,
	}
}

// NewMaterialResponseSlice converts materials into DTOs.
func NewMaterialResponseSlice(materials []models.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(materials))
	for _, material := range materials {
		out = append(out, NewMaterialResponse(material))
	}
	return out
}

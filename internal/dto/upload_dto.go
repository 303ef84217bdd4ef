package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// UploadResponse reports the stored file and its metadata record.
type UploadResponse struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUploadResponse converts an upload record into a DTO.
func NewUploadResponse(record models.UploadRecord) UploadResponse {
	return UploadResponse{
		ID:        record.ID,
		FileName:  record.FileName,
		URL:       record.URL,
		MimeType:  record.MimeType,
		SizeBytes: record.SizeBytes,
		Checksum:  record.Checksum,
		CreatedAt: record.CreatedAt,
	}
}

// NewUploadResponseSlice converts upload records into DTOs.
func NewUploadResponseSlice(records []models.UploadRecord) []UploadResponse {
	out := make([]UploadResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewUploadResponse(record))
	}
	return out
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

// ErrNotUploader indicates the caller does not own the material.
var ErrNotUploader = errors.New("only the uploader can delete a material")

// MaterialListQuery filters the materials listing.
type MaterialListQuery struct {
	Course   string `query:"course" validate:"omitempty,max=128"`
	Semester int    `query:"semester" validate:"omitempty,min=1,max=12"`
	Tag      string `query:"tag" validate:"omitempty,max=32"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// MaterialService manages shared study materials.
type MaterialService interface {
	Create(ctx context.Context, uploader models.User, payload dto.MaterialCreateRequest) (dto.MaterialResponse, error)
	Get(ctx context.Context, id string) (dto.MaterialResponse, error)
	List(ctx context.Context, query MaterialListQuery) ([]dto.MaterialResponse, error)
	RegisterDownload(ctx context.Context, id string) (dto.MaterialResponse, error)
	Delete(ctx context.Context, userID, userRole, id string) error
}

type materialService struct {
	materials repository.MaterialRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMaterialService constructs a material service.
func NewMaterialService(materials repository.MaterialRepository, validate *validator.Validate, logger zerolog.Logger) MaterialService {
	return &materialService{
		materials: materials,
		validator: validate,
		logger:    logger.With().Str("component", "material_service").Logger(),
	}
}

func (s *materialService) Create(ctx context.Context, uploader models.User, payload dto.MaterialCreateRequest) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	tags := make([]string, 0, len(payload.Tags))
	for _, tag := range payload.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	material := models.Material{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(payload.Title),
		Description:  strings.TrimSpace(payload.Description),
		Course:       strings.TrimSpace(payload.Course),
		Semester:     payload.Semester,
		Tags:         datatypes.JSONSlice[string](tags),
		FileURL:      payload.FileURL,
		FileName:     payload.FileName,
		FileSize:     payload.FileSize,
		MimeType:     payload.MimeType,
		UploaderID:   uploader.ID,
		UploaderName: uploader.Name,
	}

	if err := s.materials.Create(ctx, &material); err != nil {
		return dto.MaterialResponse{}, err
	}

	s.logger.Info().Str("material_id", material.ID).Str("course", material.Course).Msg("material shared")

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Get(ctx context.Context, id string) (dto.MaterialResponse, error) {
	material, err := s.materials.Get(ctx, id)
	if err != nil {
		return dto.MaterialResponse{}, err
	}
	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) List(ctx context.Context, query MaterialListQuery) ([]dto.MaterialResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	materials, err := s.materials.List(ctx, repository.MaterialFilter{
		Course:   strings.TrimSpace(query.Course),
		Semester: query.Semester,
		Tag:      strings.ToLower(strings.TrimSpace(query.Tag)),
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewMaterialResponseSlice(materials), nil
}

// RegisterDownload bumps the counter and returns the material so the caller
// can redirect to the hosted file.
func (s *materialService) RegisterDownload(ctx context.Context, id string) (dto.MaterialResponse, error) {
	material, err := s.materials.Get(ctx, id)
	if err != nil {
		return dto.MaterialResponse{}, err
	}

	if err := s.materials.IncrementDownloads(ctx, id); err != nil {
		return dto.MaterialResponse{}, err
	}
	material.Downloads++

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Delete(ctx context.Context, userID, userRole, id string) error {
	material, err := s.materials.Get(ctx, id)
	if err != nil {
		return err
	}
	if material.UploaderID != userID && userRole != models.RoleAdmin {
		return ErrNotUploader
	}

	return s.materials.Delete(ctx, id)
}

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
	"github.com/fast-connect/connect-go-api/pkg/ai"
)

// ErrDraftingUnavailable indicates no drafting backend is configured.
var ErrDraftingUnavailable = errors.New("email drafting is not available")

// FacultyService serves the faculty directory and email drafting.
type FacultyService interface {
	Create(ctx context.Context, payload dto.FacultyCreateRequest) (dto.FacultyResponse, error)
	Get(ctx context.Context, id string) (dto.FacultyResponse, error)
	List(ctx context.Context, department string, limit, offset int) ([]dto.FacultyResponse, error)
	Search(ctx context.Context, term string, limit int) ([]dto.FacultyResponse, error)
	Delete(ctx context.Context, id string) error
	DraftEmail(ctx context.Context, senderName, facultyID string, payload dto.EmailDraftRequest) (dto.EmailDraftResponse, error)
}

type facultyService struct {
	faculty   repository.FacultyRepository
	drafter   ai.EmailDrafter
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFacultyService constructs a faculty directory service.
func NewFacultyService(faculty repository.FacultyRepository, drafter ai.EmailDrafter, validate *validator.Validate, logger zerolog.Logger) FacultyService {
	return &facultyService{
		faculty:   faculty,
		drafter:   drafter,
		validator: validate,
		logger:    logger.With().Str("component", "faculty_service").Logger(),
	}
}

func (s *facultyService) Create(ctx context.Context, payload dto.FacultyCreateRequest) (dto.FacultyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, err
	}

	member := models.FacultyMember{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(payload.Name),
		Designation: strings.TrimSpace(payload.Designation),
		Department:  strings.TrimSpace(payload.Department),
		Email:       strings.ToLower(strings.TrimSpace(payload.Email)),
		Office:      strings.TrimSpace(payload.Office),
		Courses:     datatypes.JSONSlice[string](payload.Courses),
	}

	if err := s.faculty.Create(ctx, &member); err != nil {
		return dto.FacultyResponse{}, err
	}

	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) Get(ctx context.Context, id string) (dto.FacultyResponse, error) {
	member, err := s.faculty.Get(ctx, id)
	if err != nil {
		return dto.FacultyResponse{}, err
	}
	return dto.NewFacultyResponse(member), nil
}

func (s *facultyService) List(ctx context.Context, department string, limit, offset int) ([]dto.FacultyResponse, error) {
	members, err := s.faculty.List(ctx, strings.TrimSpace(department), limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewFacultyResponseSlice(members), nil
}

func (s *facultyService) Search(ctx context.Context, term string, limit int) ([]dto.FacultyResponse, error) {
	members, err := s.faculty.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	return dto.NewFacultyResponseSlice(members), nil
}

func (s *facultyService) Delete(ctx context.Context, id string) error {
	return s.faculty.Delete(ctx, id)
}

// DraftEmail generates a formal email toward the faculty member. The draft
// is returned to the client for review, never sent on the user's behalf.
func (s *facultyService) DraftEmail(ctx context.Context, senderName, facultyID string, payload dto.EmailDraftRequest) (dto.EmailDraftResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EmailDraftResponse{}, err
	}
	if s.drafter == nil {
		return dto.EmailDraftResponse{}, ErrDraftingUnavailable
	}

	member, err := s.faculty.Get(ctx, facultyID)
	if err != nil {
		return dto.EmailDraftResponse{}, err
	}

	draft, err := s.drafter.DraftEmail(ctx, ai.EmailInput{
		RecipientName:  member.Name,
		RecipientTitle: member.Designation,
		SenderName:     senderName,
		Intent:         payload.Intent,
		Points:         payload.Points,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("faculty_id", facultyID).Msg("email drafting failed")
		return dto.EmailDraftResponse{}, err
	}

	return dto.EmailDraftResponse{
		To:      member.Email,
		Subject: draft.Subject,
		Body:    draft.Body,
	}, nil
}

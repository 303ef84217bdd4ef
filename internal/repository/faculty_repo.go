package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// FacultyRepository persists the faculty directory.
type FacultyRepository interface {
	Create(ctx context.Context, member *models.FacultyMember) error
	Get(ctx context.Context, id string) (models.FacultyMember, error)
	Update(ctx context.Context, member *models.FacultyMember) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, department string, limit, offset int) ([]models.FacultyMember, error)
	Search(ctx context.Context, term string, limit int) ([]models.FacultyMember, error)
}

type facultyRepository struct {
	db *gorm.DB
}

// NewFacultyRepository constructs a GORM-backed faculty repository.
func NewFacultyRepository(db *gorm.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) Create(ctx context.Context, member *models.FacultyMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *facultyRepository) Get(ctx context.Context, id string) (models.FacultyMember, error) {
	var member models.FacultyMember
	if err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error; err != nil {
		return models.FacultyMember{}, err
	}
	return member, nil
}

func (r *facultyRepository) Update(ctx context.Context, member *models.FacultyMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *facultyRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.FacultyMember{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *facultyRepository) List(ctx context.Context, department string, limit, offset int) ([]models.FacultyMember, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.FacultyMember{})
	if department != "" {
		query = query.Where("department = ?", department)
	}

	var members []models.FacultyMember
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *facultyRepository) Search(ctx context.Context, term string, limit int) ([]models.FacultyMember, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return []models.FacultyMember{}, nil
	}

	var members []models.FacultyMember
	err := r.db.WithContext(ctx).
		Where("search_terms LIKE ?", "%"+term+"%").
		Limit(limit).
		Find(&members).Error
	return members, err
}

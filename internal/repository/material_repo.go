package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// MaterialFilter narrows material listings.
type MaterialFilter struct {
	Course   string
	Semester int
	Tag      string
	Limit    int
	Offset   int
}

// MaterialRepository persists shared study materials.
type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	Get(ctx context.Context, id string) (models.Material, error)
	List(ctx context.Context, filter MaterialFilter) ([]models.Material, error)
	IncrementDownloads(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository constructs a GORM-backed material repository.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) Get(ctx context.Context, id string) (models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return models.Material{}, err
	}
	return material, nil
}

func (r *materialRepository) List(ctx context.Context, filter MaterialFilter) ([]models.Material, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Material{})
	if filter.Course != "" {
		query = query.Where("course = ?", filter.Course)
	}
	if filter.Semester > 0 {
		query = query.Where("semester = ?", filter.Semester)
	}
	if filter.Tag != "" {
		query = query.Where("tags LIKE ?", "%\""+filter.Tag+"\"%")
	}

	var materials []models.Material
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) IncrementDownloads(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Material{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).
		Error
}

func (r *materialRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Material{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

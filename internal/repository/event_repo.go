package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// EventRepository persists calendar events.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	Get(ctx context.Context, id string) (models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error)
	ListBetween(ctx context.Context, from, until time.Time) ([]models.Event, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs a GORM-backed event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) Get(ctx context.Context, id string) (models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return models.Event{}, err
	}
	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("starts_at >= ?", from).
		Order("starts_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListBetween(ctx context.Context, from, until time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("starts_at >= ? AND starts_at < ?", from, until).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

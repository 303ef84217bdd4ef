package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// QuizRepository persists generated quizzes and graded attempts.
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	Get(ctx context.Context, id string) (models.Quiz, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Quiz, error)
	RecordAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	ListAttempts(ctx context.Context, quizID, userID string) ([]models.QuizAttempt, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository constructs a GORM-backed quiz repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) Get(ctx context.Context, id string) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).Preload("Questions").First(&quiz, "id = ?", id).Error; err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func (r *quizRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Quiz, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var quizzes []models.Quiz
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) RecordAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *quizRepository) ListAttempts(ctx context.Context, quizID, userID string) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := r.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

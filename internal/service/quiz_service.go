package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/repository"
	"github.com/fast-connect/connect-go-api/pkg/ai"
)

var (
	ErrQuizGenerationFailed = errors.New("quiz generation failed")
	ErrAnswerCountMismatch  = errors.New("answer count does not match question count")
)

const defaultQuestionCount = 5

// QuizService generates quizzes and grades attempts.
type QuizService interface {
	Generate(ctx context.Context, userID string, payload dto.QuizGenerateRequest) (dto.QuizResponse, error)
	Get(ctx context.Context, id string) (dto.QuizResponse, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]dto.QuizResponse, error)
	SubmitAttempt(ctx context.Context, userID, quizID string, payload dto.QuizAttemptRequest) (dto.QuizAttemptResponse, error)
	ListAttempts(ctx context.Context, userID, quizID string) ([]dto.QuizAttemptResponse, error)
}

type quizService struct {
	quizzes   repository.QuizRepository
	generator ai.QuizGenerator
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuizService constructs a quiz service.
func NewQuizService(quizzes repository.QuizRepository, generator ai.QuizGenerator, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizzes,
		generator: generator,
		validator: validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *quizService) Generate(ctx context.Context, userID string, payload dto.QuizGenerateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	if s.generator == nil {
		return dto.QuizResponse{}, ErrQuizGenerationFailed
	}

	count := payload.Count
	if count <= 0 {
		count = defaultQuestionCount
	}

	generated, err := s.generator.GenerateQuiz(ctx, ai.QuizInput{
		Topic:      payload.Topic,
		Difficulty: payload.Difficulty,
		Count:      count,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("topic", payload.Topic).Msg("quiz generation failed")
		return dto.QuizResponse{}, ErrQuizGenerationFailed
	}
	if len(generated) == 0 {
		return dto.QuizResponse{}, ErrQuizGenerationFailed
	}

	quiz := models.Quiz{
		ID:         uuid.NewString(),
		Topic:      payload.Topic,
		Difficulty: payload.Difficulty,
		CreatedBy:  userID,
	}
	for _, question := range generated {
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Prompt:      question.Prompt,
			Options:     datatypes.JSONSlice[string](question.Options),
			AnswerIndex: question.AnswerIndex,
			Explanation: question.Explanation,
		})
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Str("quiz_id", quiz.ID).Int("questions", len(quiz.Questions)).Msg("quiz generated")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Get(ctx context.Context, id string) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.Get(ctx, id)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewQuizResponseSlice(quizzes), nil
}

// SubmitAttempt grades server-side against the stored answer key. Answer
// keys never leave the backend, so a submitted attempt is the only way a
// client learns its score.
func (s *quizService) SubmitAttempt(ctx context.Context, userID, quizID string, payload dto.QuizAttemptRequest) (dto.QuizAttemptResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizAttemptResponse{}, err
	}

	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return dto.QuizAttemptResponse{}, err
	}
	if len(payload.Answers) != len(quiz.Questions) {
		return dto.QuizAttemptResponse{}, ErrAnswerCountMismatch
	}

	score := 0
	for i, question := range quiz.Questions {
		if payload.Answers[i] == question.AnswerIndex {
			score++
		}
	}

	attempt := models.QuizAttempt{
		QuizID:  quizID,
		UserID:  userID,
		Answers: datatypes.JSONSlice[int](payload.Answers),
		Score:   score,
		Total:   len(quiz.Questions),
	}

	if err := s.quizzes.RecordAttempt(ctx, &attempt); err != nil {
		return dto.QuizAttemptResponse{}, err
	}

	return dto.NewQuizAttemptResponse(attempt), nil
}

func (s *quizService) ListAttempts(ctx context.Context, userID, quizID string) ([]dto.QuizAttemptResponse, error) {
	attempts, err := s.quizzes.ListAttempts(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.QuizAttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, dto.NewQuizAttemptResponse(attempt))
	}
	return responses, nil
}

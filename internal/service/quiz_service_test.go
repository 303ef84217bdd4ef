package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/pkg/ai"
)

type quizGeneratorStub struct {
	questions []ai.GeneratedQuestion
	err       error
	input     ai.QuizInput
}

func (g *quizGeneratorStub) GenerateQuiz(ctx context.Context, input ai.QuizInput) ([]ai.GeneratedQuestion, error) {
	g.input = input
	return g.questions, g.err
}

type quizRepoStub struct {
	quiz    models.Quiz
	attempt models.QuizAttempt
}

func (r *quizRepoStub) Create(ctx context.Context, quiz *models.Quiz) error {
	r.quiz = *quiz
	return nil
}

func (r *quizRepoStub) Get(ctx context.Context, id string) (models.Quiz, error) {
	return r.quiz, nil
}

func (r *quizRepoStub) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Quiz, error) {
	return []models.Quiz{r.quiz}, nil
}

func (r *quizRepoStub) RecordAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	r.attempt = *attempt
	return nil
}

func (r *quizRepoStub) ListAttempts(ctx context.Context, quizID, userID string) ([]models.QuizAttempt, error) {
	return []models.QuizAttempt{r.attempt}, nil
}

func newQuizService(repo *quizRepoStub, generator ai.QuizGenerator) QuizService {
	return NewQuizService(repo, generator, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestQuizGeneratePersistsQuestions(t *testing.T) {
	generator := &quizGeneratorStub{questions: []ai.GeneratedQuestion{
		{Prompt: "What does TCP stand for?", Options: []string{"a", "b", "c", "d"}, AnswerIndex: 2},
		{Prompt: "Which layer does IP live on?", Options: []string{"a", "b", "c", "d"}, AnswerIndex: 1},
	}}
	repo := &quizRepoStub{}
	svc := newQuizService(repo, generator)

	resp, err := svc.Generate(context.Background(), "user-1", dto.QuizGenerateRequest{
		Topic:      "Computer Networks",
		Difficulty: "medium",
	})
	require.NoError(t, err)
	require.Equal(t, defaultQuestionCount, generator.input.Count)
	require.Len(t, repo.quiz.Questions, 2)
	require.Equal(t, "user-1", repo.quiz.CreatedBy)
	require.Len(t, resp.Questions, 2)
	// the answer key stays server side
	require.Equal(t, 2, repo.quiz.Questions[0].AnswerIndex)
}

func TestQuizGenerateWrapsProviderError(t *testing.T) {
	generator := &quizGeneratorStub{err: errors.New("rate limited")}
	svc := newQuizService(&quizRepoStub{}, generator)

	_, err := svc.Generate(context.Background(), "user-1", dto.QuizGenerateRequest{
		Topic:      "Operating Systems",
		Difficulty: "hard",
	})
	require.ErrorIs(t, err, ErrQuizGenerationFailed)
}

func TestQuizGenerateWithoutProvider(t *testing.T) {
	svc := newQuizService(&quizRepoStub{}, nil)

	_, err := svc.Generate(context.Background(), "user-1", dto.QuizGenerateRequest{
		Topic:      "Databases",
		Difficulty: "easy",
	})
	require.ErrorIs(t, err, ErrQuizGenerationFailed)
}

func TestSubmitAttemptGradesServerSide(t *testing.T) {
	repo := &quizRepoStub{quiz: models.Quiz{
		ID: "quiz-1",
		Questions: []models.QuizQuestion{
			{Prompt: "q1", Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 0},
			{Prompt: "q2", Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 1},
			{Prompt: "q3", Options: datatypes.JSONSlice[string]{"a", "b"}, AnswerIndex: 1},
		},
	}}
	svc := newQuizService(repo, &quizGeneratorStub{})

	resp, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", dto.QuizAttemptRequest{
		Answers: []int{0, 1, 0},
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Score)
	require.Equal(t, 3, resp.Total)
	require.Equal(t, "user-1", repo.attempt.UserID)
}

func TestSubmitAttemptRejectsCountMismatch(t *testing.T) {
	repo := &quizRepoStub{quiz: models.Quiz{
		ID:        "quiz-1",
		Questions: []models.QuizQuestion{{Prompt: "q1", AnswerIndex: 0}},
	}}
	svc := newQuizService(repo, &quizGeneratorStub{})

	_, err := svc.SubmitAttempt(context.Background(), "user-1", "quiz-1", dto.QuizAttemptRequest{
		Answers: []int{0, 1},
	})
	require.ErrorIs(t, err, ErrAnswerCountMismatch)
}

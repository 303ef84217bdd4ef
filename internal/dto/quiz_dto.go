package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// QuizGenerateRequest asks for an AI-generated quiz.
type QuizGenerateRequest struct {
	Topic      string `json:"topic" validate:"required,min=2,max=255"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Count      int    `json:"count" validate:"omitempty,min=1,max=20"`
}

// QuizAttemptRequest submits answers for grading. Answers are option indexes
// aligned with the question order.
type QuizAttemptRequest struct {
	Answers []int `json:"answers" validate:"required,min=1"`
}

// QuizQuestionResponse is a question without its answer key.
type QuizQuestionResponse struct {
	ID      uint     `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// QuizResponse is a serialized quiz.
type QuizResponse struct {
	ID         string                 `json:"id"`
	Topic      string                 `json:"topic"`
	Difficulty string                 `json:"difficulty"`
	CreatedBy  string                 `json:"created_by"`
	Questions  []QuizQuestionResponse `json:"questions,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// QuizAttemptResponse is a graded attempt.
type QuizAttemptResponse struct {
	ID        uint      `json:"id"`
	QuizID    string    `json:"quiz_id"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// NewQuizResponse converts a quiz model into a DTO, hiding answer keys.
func NewQuizResponse(quiz models.Quiz) QuizResponse {
	response := QuizResponse{
		ID:         quiz.ID,
		Topic:      quiz.Topic,
		Difficulty: quiz.Difficulty,
		CreatedBy:  quiz.CreatedBy,
		CreatedAt:  quiz.CreatedAt,
	}
	for _, question := range quiz.Questions {
		response.Questions = append(response.Questions, QuizQuestionResponse{
			ID:      question.ID,
			Prompt:  question.Prompt,
			Options: append([]string{}, question.Options...),
		})
	}
	return response
}

// NewQuizResponseSlice converts quizzes into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	out := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		out = append(out, NewQuizResponse(quiz))
	}
	return out
}

// NewQuizAttemptResponse converts an attempt model into a DTO.
func NewQuizAttemptResponse(attempt models.QuizAttempt) QuizAttemptResponse {
	return QuizAttemptResponse{
		ID:        attempt.ID,
		QuizID:    attempt.QuizID,
		Score:     attempt.Score,
		Total:     attempt.Total,
		CreatedAt: attempt.CreatedAt,
	}
}

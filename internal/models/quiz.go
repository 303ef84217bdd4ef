package models

import (
	"time"

	"gorm.io/datatypes"
)

// Quiz difficulty levels.
var QuizDifficulties = []string{"easy", "medium", "hard"}

// Quiz is a generated question set on a topic.
type Quiz struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Topic      string    `gorm:"size:255;not null" json:"topic"`
	Difficulty string    `gorm:"size:16;not null" json:"difficulty"`
	CreatedBy  string    `gorm:"size:64;index" json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	QuizID      string                      `gorm:"size:64;index;not null" json:"quiz_id"`
	Prompt      string                      `gorm:"type:text;not null" json:"prompt"`
	Options     datatypes.JSONSlice[string] `json:"options"`
	AnswerIndex int                         `gorm:"not null" json:"-"`
	Explanation string                      `gorm:"type:text" json:"explanation,omitempty"`
}

// QuizAttempt records a user's graded submission for a quiz.
type QuizAttempt struct {
	ID        uint                     `gorm:"primaryKey" json:"id"`
	QuizID    string                   `gorm:"size:64;index;not null" json:"quiz_id"`
	UserID    string                   `gorm:"size:64;index;not null" json:"user_id"`
	Answers   datatypes.JSONSlice[int] `json:"answers"`
	Score     int                      `gorm:"not null" json:"score"`
	Total     int                      `gorm:"not null" json:"total"`
	CreatedAt time.Time                `json:"created_at"`
}

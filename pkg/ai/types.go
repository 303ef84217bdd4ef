package ai

import "context"

// QuizInput describes the quiz to generate.
type QuizInput struct {
	Topic      string
	Difficulty string
	Count      int
}

// GeneratedQuestion is one multiple-choice question returned by the model.
type GeneratedQuestion struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// QuizGenerator produces quiz questions for a topic.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, input QuizInput) ([]GeneratedQuestion, error)
}

// EmailInput describes the email to draft.
type EmailInput struct {
	RecipientName  string
	RecipientTitle string
	SenderName     string
	Intent         string
	Points         []string
}

// EmailDraft is the drafted subject and body.
type EmailDraft struct {
	Subject string
	Body    string
}

// EmailDrafter produces a polite email draft toward a faculty member.
type EmailDrafter interface {
	DraftEmail(ctx context.Context, input EmailInput) (EmailDraft, error)
}

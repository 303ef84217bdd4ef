package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "connect",
		Subsystem: "ai",
		Name:      "request_duration_seconds",
		Help:      "Duration of AI generation requests",
	}, []string{"model", "kind"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "connect",
		Subsystem: "ai",
		Name:      "request_failures_total",
		Help:      "Number of AI generation failures",
	}, []string{"model", "kind"})
)

// ErrNoQuestionArray indicates the model response contained no well-formed
// JSON question array. Callers must treat this as a failure, never as an
// empty quiz.
var ErrNoQuestionArray = errors.New("no question array found in model response")

// OpenAIConfig defines configuration options for the OpenAI client.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIClient implements QuizGenerator and EmailDrafter against the OpenAI
// chat completion API.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClient builds a new client using the provided configuration.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey)),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/fast-connect/connect-go-api/pkg/ai/openai"),
		logger: logger,
	}, nil
}

// GenerateQuiz asks the model for a question array and parses it.
func (c *OpenAIClient) GenerateQuiz(parent context.Context, input QuizInput) ([]GeneratedQuestion, error) {
	ctx, span := c.tracer.Start(parent, "openai.generate_quiz", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
		attribute.String("quiz.topic", input.Topic),
		attribute.String("quiz.difficulty", input.Difficulty),
	))
	defer span.End()

	count := input.Count
	if count <= 0 {
		count = 5
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: quizSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: buildQuizPrompt(input.Topic, input.Difficulty, count)},
		},
	})
	aiDuration.WithLabelValues(c.cfg.Model, "quiz").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model, "quiz").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai generate quiz: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(c.cfg.Model, "quiz").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	questions, err := parseQuestionArray(resp.Choices[0].Message.Content)
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model, "quiz").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return questions, nil
}

// DraftEmail asks the model for a subject line and body.
func (c *OpenAIClient) DraftEmail(parent context.Context, input EmailInput) (EmailDraft, error) {
	ctx, span := c.tracer.Start(parent, "openai.draft_email", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: emailSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: buildEmailPrompt(input)},
		},
	})
	aiDuration.WithLabelValues(c.cfg.Model, "email").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues(c.cfg.Model, "email").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return EmailDraft{}, fmt.Errorf("openai draft email: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues(c.cfg.Model, "email").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return EmailDraft{}, err
	}

	return splitEmailDraft(resp.Choices[0].Message.Content), nil
}

func quizSystemPrompt() string {
	return "You are a quiz generator for university students. Respond with a JSON array only. " +
		"Each element must have: question (string), options (array of 4 strings), " +
		"answer_index (0-based integer), explanation (string)."
}

func buildQuizPrompt(topic, difficulty string, count int) string {
	return fmt.Sprintf("Generate %d %s multiple-choice questions on the topic: %s. Return the JSON array only.",
		count, difficulty, topic)
}

func emailSystemPrompt() string {
	return "You draft concise, formal emails from a student to a faculty member. " +
		"Start the response with 'Subject: <subject line>' on its own line, then a blank line, then the body."
}

func buildEmailPrompt(input EmailInput) string {
	builder := strings.Builder{}
	builder.WriteString("Recipient: ")
	builder.WriteString(input.RecipientName)
	if input.RecipientTitle != "" {
		builder.WriteString(" (")
		builder.WriteString(input.RecipientTitle)
		builder.WriteString(")")
	}
	builder.WriteString("\nSender: ")
	builder.WriteString(input.SenderName)
	builder.WriteString("\nIntent: ")
	builder.WriteString(input.Intent)
	if len(input.Points) > 0 {
		builder.WriteString("\nPoints to cover:")
		for _, point := range input.Points {
			builder.WriteString("\n- ")
			builder.WriteString(point)
		}
	}
	return builder.String()
}

// parseQuestionArray extracts the first well-formed JSON array from the
// response, tolerating markdown code fences around it. An unparseable
// response is an error, never an empty quiz.
func parseQuestionArray(content string) ([]GeneratedQuestion, error) {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, ErrNoQuestionArray
	}

	var questions []GeneratedQuestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoQuestionArray, err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionArray
	}

	for i, question := range questions {
		if question.Prompt == "" || len(question.Options) < 2 {
			return nil, fmt.Errorf("%w: malformed question at index %d", ErrNoQuestionArray, i)
		}
		if question.AnswerIndex < 0 || question.AnswerIndex >= len(question.Options) {
			return nil, fmt.Errorf("%w: answer index out of range at index %d", ErrNoQuestionArray, i)
		}
	}

	return questions, nil
}

func splitEmailDraft(content string) EmailDraft {
	content = strings.TrimSpace(content)
	draft := EmailDraft{Body: content}

	lines := strings.SplitN(content, "\n", 2)
	if strings.HasPrefix(strings.ToLower(lines[0]), "subject:") {
		draft.Subject = strings.TrimSpace(lines[0][len("subject:"):])
		if len(lines) > 1 {
			draft.Body = strings.TrimSpace(lines[1])
		} else {
			draft.Body = ""
		}
	}

	return draft
}

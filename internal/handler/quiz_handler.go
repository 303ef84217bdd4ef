package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// QuizHandler provides AI quiz endpoints.
type QuizHandler struct {
	service   service.QuizService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuizHandler constructs a handler instance.
func NewQuizHandler(service service.QuizService, validator *validator.Validate, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "quiz_handler").Logger(),
	}
}

// Register binds the quiz routes.
func (h *QuizHandler) Register(router fiber.Router) {
	router.Post("/generate", h.generate)
	router.Get("/", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/attempts", h.submitAttempt)
	router.Get("/:id/attempts", h.listAttempts)
}

func (h *QuizHandler) generate(c *fiber.Ctx) error {
	var payload dto.QuizGenerateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Generate(withRequestContext(c), userIDFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz generated", response)
}

func (h *QuizHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	quizzes, err := h.service.ListByUser(withRequestContext(c), userIDFromContext(c), limit, offset)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "quizzes", quizzes)
}

func (h *QuizHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(withRequestContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "quiz", response)
}

func (h *QuizHandler) submitAttempt(c *fiber.Ctx) error {
	var payload dto.QuizAttemptRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.SubmitAttempt(withRequestContext(c), userIDFromContext(c), c.Params("id"), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attempt graded", response)
}

func (h *QuizHandler) listAttempts(c *fiber.Ctx) error {
	attempts, err := h.service.ListAttempts(withRequestContext(c), userIDFromContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "attempts", attempts)
}

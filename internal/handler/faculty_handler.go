package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// FacultyHandler provides faculty directory and email drafting endpoints.
type FacultyHandler struct {
	service   service.FacultyService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewFacultyHandler constructs a handler instance.
func NewFacultyHandler(service service.FacultyService, validator *validator.Validate, logger zerolog.Logger) *FacultyHandler {
	return &FacultyHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "faculty_handler").Logger(),
	}
}

// Register binds the directory routes.
func (h *FacultyHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Get("/search", h.search)
	router.Get("/:id", h.get)
	router.Post("/:id/email-draft", h.draftEmail)
}

// RegisterAdmin binds the directory management routes.
func (h *FacultyHandler) RegisterAdmin(router fiber.Router) {
	router.Post("/", h.create)
	router.Delete("/:id", h.delete)
}

func (h *FacultyHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	members, err := h.service.List(withRequestContext(c), c.Query("department"), limit, offset)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "faculty", members)
}

func (h *FacultyHandler) search(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "q required")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	members, err := h.service.Search(withRequestContext(c), term, limit)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "faculty", members)
}

func (h *FacultyHandler) get(c *fiber.Ctx) error {
	member, err := h.service.Get(withRequestContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "faculty member", member)
}

func (h *FacultyHandler) draftEmail(c *fiber.Ctx) error {
	var payload dto.EmailDraftRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.DraftEmail(withRequestContext(c), localString(c, "user_name"), c.Params("id"), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "email drafted", response)
}

func (h *FacultyHandler) create(c *fiber.Ctx) error {
	var payload dto.FacultyCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(withRequestContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "faculty member added", response)
}

func (h *FacultyHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(withRequestContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "faculty member removed", nil)
}

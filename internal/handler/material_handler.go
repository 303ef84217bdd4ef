package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// MaterialHandler provides study material endpoints.
type MaterialHandler struct {
	service   service.MaterialService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewMaterialHandler constructs a handler instance.
func NewMaterialHandler(service service.MaterialService, validator *validator.Validate, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register binds the material routes.
func (h *MaterialHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/download", h.download)
	router.Delete("/:id", h.delete)
}

func (h *MaterialHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}
	semester, err := parseQueryInt(c, "semester")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid semester")
	}

	query := service.MaterialListQuery{
		Course:   c.Query("course"),
		Semester: semester,
		Tag:      c.Query("tag"),
		Limit:    limit,
		Offset:   offset,
	}

	materials, err := h.service.List(withRequestContext(c), query)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "materials", materials)
}

func (h *MaterialHandler) create(c *fiber.Ctx) error {
	var payload dto.MaterialCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(withRequestContext(c), actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "material shared", response)
}

func (h *MaterialHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(withRequestContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "material", response)
}

func (h *MaterialHandler) download(c *fiber.Ctx) error {
	response, err := h.service.RegisterDownload(withRequestContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "download registered", response)
}

func (h *MaterialHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(withRequestContext(c), userIDFromContext(c), userRoleFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "material deleted", nil)
}

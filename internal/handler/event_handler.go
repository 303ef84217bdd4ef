package handler

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// EventHandler provides calendar endpoints.
type EventHandler struct {
	service   service.EventService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEventHandler constructs a handler instance.
func NewEventHandler(service service.EventService, validator *validator.Validate, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "event_handler").Logger(),
	}
}

// Register binds the event routes.
func (h *EventHandler) Register(router fiber.Router) {
	router.Get("/", h.listUpcoming)
	router.Get("/calendar", h.listBetween)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *EventHandler) listUpcoming(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	events, err := h.service.ListUpcoming(withRequestContext(c), limit)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "events", events)
}

func (h *EventHandler) listBetween(c *fiber.Ctx) error {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from timestamp")
	}
	until, err := time.Parse(time.RFC3339, c.Query("until"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid until timestamp")
	}

	events, err := h.service.ListBetween(withRequestContext(c), from, until)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "events", events)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(withRequestContext(c), actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "event created", response)
}

func (h *EventHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Get(withRequestContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "event", response)
}

func (h *EventHandler) update(c *fiber.Ctx) error {
	var payload dto.EventUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(withRequestContext(c), userIDFromContext(c), userRoleFromContext(c), c.Params("id"), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "event updated", response)
}

func (h *EventHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(withRequestContext(c), userIDFromContext(c), userRoleFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "event deleted", nil)
}

package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/service"
	"github.com/fast-connect/connect-go-api/internal/utils"
)

// DiscussionHandler provides HTTP endpoints for posts, comments and votes.
type DiscussionHandler struct {
	service   service.DiscussionService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDiscussionHandler constructs a handler instance.
func NewDiscussionHandler(service service.DiscussionService, validator *validator.Validate, logger zerolog.Logger) *DiscussionHandler {
	return &DiscussionHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "discussion_handler").Logger(),
	}
}

// Register binds the discussion routes.
func (h *DiscussionHandler) Register(router fiber.Router) {
	router.Get("/posts", h.listPosts)
	router.Post("/posts", h.createPost)
	router.Get("/posts/:id", h.getPost)
	router.Delete("/posts/:id", h.deletePost)
	router.Post("/posts/:id/vote", h.votePost)

	router.Get("/posts/:id/comments", h.listComments)
	router.Post("/posts/:id/comments", h.createComment)
	router.Delete("/posts/:id/comments/:commentId", h.deleteComment)
	router.Post("/comments/:id/vote", h.voteComment)
}

func (h *DiscussionHandler) listPosts(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	query := service.PostListQuery{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		Sort:     c.Query("sort"),
		Limit:    limit,
		Offset:   offset,
	}

	posts, err := h.service.ListPosts(withRequestContext(c), query)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "posts", posts)
}

func (h *DiscussionHandler) createPost(c *fiber.Ctx) error {
	var payload dto.PostCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.CreatePost(withRequestContext(c), actorFromContext(c), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post created", response)
}

func (h *DiscussionHandler) getPost(c *fiber.Ctx) error {
	response, err := h.service.GetPost(withRequestContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "post", response)
}

func (h *DiscussionHandler) deletePost(c *fiber.Ctx) error {
	if err := h.service.DeletePost(withRequestContext(c), userIDFromContext(c), c.Params("id")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "post deleted", nil)
}

func (h *DiscussionHandler) votePost(c *fiber.Ctx) error {
	return h.vote(c, models.VoteEntityPost, c.Params("id"))
}

func (h *DiscussionHandler) voteComment(c *fiber.Ctx) error {
	return h.vote(c, models.VoteEntityComment, c.Params("id"))
}

func (h *DiscussionHandler) vote(c *fiber.Ctx, entityType, entityID string) error {
	var payload dto.VoteRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Vote(withRequestContext(c), userIDFromContext(c), entityType, entityID, payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccess(c, "vote recorded", response)
}

func (h *DiscussionHandler) listComments(c *fiber.Ctx) error {
	comments, err := h.service.ListComments(withRequestContext(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "comments", comments)
}

func (h *DiscussionHandler) createComment(c *fiber.Ctx) error {
	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.CreateComment(withRequestContext(c), actorFromContext(c), c.Params("id"), payload)
	if err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment created", response)
}

func (h *DiscussionHandler) deleteComment(c *fiber.Ctx) error {
	if err := h.service.DeleteComment(withRequestContext(c), userIDFromContext(c), c.Params("id"), c.Params("commentId")); err != nil {
		return utils.SendError(c, statusForError(err), err.Error())
	}
	return utils.SendSuccess(c, "comment deleted", nil)
}

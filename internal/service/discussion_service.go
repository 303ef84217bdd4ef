package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/observability"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

var (
	ErrInvalidCategory = errors.New("unknown post category")
	ErrNotAuthor       = errors.New("only the author can delete this")
	ErrWrongPost       = errors.New("comment does not belong to this post")
)

// PostListQuery filters the discussion feed.
type PostListQuery struct {
	Category string `query:"category" validate:"omitempty,max=32"`
	Tag      string `query:"tag" validate:"omitempty,max=32"`
	Sort     string `query:"sort" validate:"omitempty,oneof=recent top"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// DiscussionService manages posts, nested comments and voting.
type DiscussionService interface {
	CreatePost(ctx context.Context, author models.User, payload dto.PostCreateRequest) (dto.PostResponse, error)
	GetPost(ctx context.Context, postID string) (dto.PostResponse, error)
	ListPosts(ctx context.Context, query PostListQuery) ([]dto.PostResponse, error)
	DeletePost(ctx context.Context, userID, postID string) error
	CreateComment(ctx context.Context, author models.User, postID string, payload dto.CommentCreateRequest) (dto.CommentNode, error)
	ListComments(ctx context.Context, postID string) ([]dto.CommentNode, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) error
	Vote(ctx context.Context, userID, entityType, entityID string, payload dto.VoteRequest) (dto.VoteResponse, error)
}

type discussionService struct {
	discussions repository.DiscussionRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewDiscussionService constructs a discussion service.
func NewDiscussionService(discussions repository.DiscussionRepository, validate *validator.Validate, logger zerolog.Logger) DiscussionService {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowElements("br")

	return &discussionService{
		discussions: discussions,
		validator:   validate,
		sanitizer:   sanitizer,
		logger:      logger.With().Str("component", "discussion_service").Logger(),
	}
}

func (s *discussionService) CreatePost(ctx context.Context, author models.User, payload dto.PostCreateRequest) (dto.PostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostResponse{}, err
	}
	if !models.ValidPostCategory(payload.Category) {
		return dto.PostResponse{}, ErrInvalidCategory
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.PostResponse{}, fmt.Errorf("post content empty after sanitization")
	}

	tags := make([]string, 0, len(payload.Tags))
	for _, tag := range payload.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	post := models.Post{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(payload.Title),
		Content:      content,
		Category:     payload.Category,
		Tags:         datatypes.JSONSlice[string](tags),
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
	}

	if err := s.discussions.CreatePost(ctx, &post); err != nil {
		return dto.PostResponse{}, err
	}

	s.logger.Info().Str("post_id", post.ID).Str("category", post.Category).Msg("post created")

	return dto.NewPostResponse(post), nil
}

func (s *discussionService) GetPost(ctx context.Context, postID string) (dto.PostResponse, error) {
	post, err := s.discussions.GetPost(ctx, postID)
	if err != nil {
		return dto.PostResponse{}, err
	}

	response := dto.NewPostResponse(post)
	up, down, err := s.discussions.VoterIDs(ctx, models.VoteEntityPost, postID)
	if err != nil {
		return dto.PostResponse{}, err
	}
	response.UpvotedBy = up
	response.DownvotedBy = down

	return response, nil
}

func (s *discussionService) ListPosts(ctx context.Context, query PostListQuery) ([]dto.PostResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}
	if query.Category != "" && !models.ValidPostCategory(query.Category) {
		return nil, ErrInvalidCategory
	}

	posts, err := s.discussions.ListPosts(ctx, query.Category, strings.ToLower(query.Tag), query.Sort, query.Limit, query.Offset)
	if err != nil {
		return nil, err
	}

	return dto.NewPostResponseSlice(posts), nil
}

// DeletePost removes the post plus all its comments and votes in one
// transaction.
func (s *discussionService) DeletePost(ctx context.Context, userID, postID string) error {
	post, err := s.discussions.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNotAuthor
	}

	return s.discussions.DeletePost(ctx, postID)
}

func (s *discussionService) CreateComment(ctx context.Context, author models.User, postID string, payload dto.CommentCreateRequest) (dto.CommentNode, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentNode{}, err
	}

	if _, err := s.discussions.GetPost(ctx, postID); err != nil {
		return dto.CommentNode{}, err
	}

	if payload.ParentID != nil {
		parent, err := s.discussions.GetComment(ctx, *payload.ParentID)
		if err != nil {
			return dto.CommentNode{}, err
		}
		if parent.PostID != postID {
			return dto.CommentNode{}, ErrWrongPost
		}
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.CommentNode{}, fmt.Errorf("comment content empty after sanitization")
	}

	comment := models.Comment{
		ID:           uuid.NewString(),
		PostID:       postID,
		ParentID:     payload.ParentID,
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarURL,
		Content:      content,
	}

	if err := s.discussions.CreateComment(ctx, &comment); err != nil {
		return dto.CommentNode{}, err
	}

	nodes := dto.BuildCommentTree([]models.Comment{comment})
	return nodes[0], nil
}

func (s *discussionService) ListComments(ctx context.Context, postID string) ([]dto.CommentNode, error) {
	comments, err := s.discussions.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return dto.BuildCommentTree(comments), nil
}

// DeleteComment hard-deletes a leaf; a comment with replies is tombstoned
// instead so its subtree keeps rendering.
func (s *discussionService) DeleteComment(ctx context.Context, userID, postID, commentID string) error {
	comment, err := s.discussions.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return ErrWrongPost
	}
	if comment.AuthorID != userID {
		return ErrNotAuthor
	}

	return s.discussions.DeleteComment(ctx, comment)
}

// Vote toggles a vote: same direction retracts it, the opposite direction
// flips it. A user holds at most one vote per entity.
func (s *discussionService) Vote(ctx context.Context, userID, entityType, entityID string, payload dto.VoteRequest) (dto.VoteResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.VoteResponse{}, err
	}
	if entityType != models.VoteEntityPost && entityType != models.VoteEntityComment {
		return dto.VoteResponse{}, fmt.Errorf("unknown vote entity %q", entityType)
	}

	value := models.VoteUp
	if payload.Direction == "down" {
		value = models.VoteDown
	}

	state, err := s.discussions.ToggleVote(ctx, entityType, entityID, userID, value)
	if err != nil {
		return dto.VoteResponse{}, err
	}

	observability.VotesCast().WithLabelValues(entityType).Inc()

	return dto.VoteResponse{Upvotes: state.Upvotes, Downvotes: state.Downvotes, UserVote: state.UserVote}, nil
}

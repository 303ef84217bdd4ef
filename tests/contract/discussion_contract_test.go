package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/handler"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/service"
)

type stubDiscussionService struct {
	post dto.PostResponse
}

func (s stubDiscussionService) CreatePost(context.Context, models.User, dto.PostCreateRequest) (dto.PostResponse, error) {
	return s.post, nil
}

func (s stubDiscussionService) GetPost(context.Context, string) (dto.PostResponse, error) {
	return s.post, nil
}

func (s stubDiscussionService) ListPosts(context.Context, service.PostListQuery) ([]dto.PostResponse, error) {
	return []dto.PostResponse{s.post}, nil
}

func (s stubDiscussionService) DeletePost(context.Context, string, string) error {
	return nil
}

func (s stubDiscussionService) CreateComment(context.Context, models.User, string, dto.CommentCreateRequest) (dto.CommentNode, error) {
	return dto.CommentNode{}, nil
}

func (s stubDiscussionService) ListComments(context.Context, string) ([]dto.CommentNode, error) {
	return nil, nil
}

func (s stubDiscussionService) DeleteComment(context.Context, string, string, string) error {
	return nil
}

func (s stubDiscussionService) Vote(context.Context, string, string, string, dto.VoteRequest) (dto.VoteResponse, error) {
	return dto.VoteResponse{}, nil
}

func TestDiscussionPostContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "discussion_post.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	post := dto.PostResponse{
		ID:           "post-1",
		Title:        "Hostel wifi keeps dropping",
		Content:      "Anyone else losing the connection every evening?",
		Category:     "hostel",
		Tags:         []string{"wifi", "hostel"},
		AuthorID:     "user-1",
		AuthorName:   "Ayesha Khan",
		AuthorAvatar: "https://cdn.example.com/avatars/ayesha.png",
		Upvotes:      4,
		Downvotes:    1,
		UpvotedBy:    []string{"user-2", "user-3"},
		DownvotedBy:  []string{"user-4"},
		CommentCount: 2,
		CreatedAt:    now,
	}

	svc := stubDiscussionService{post: post}
	h := handler.NewDiscussionHandler(svc, validator.New(), zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/discussions", func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		c.Locals("user_role", models.RoleStudent)
		return c.Next()
	})
	h.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/discussions/posts/post-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

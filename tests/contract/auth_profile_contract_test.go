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
)

type stubAuthService struct {
	user dto.UserResponse
}

func (s stubAuthService) Register(context.Context, dto.RegisterRequest) (dto.AuthResponse, error) {
	return dto.AuthResponse{User: s.user}, nil
}

func (s stubAuthService) Login(context.Context, dto.LoginRequest) (dto.AuthResponse, error) {
	return dto.AuthResponse{User: s.user}, nil
}

func (s stubAuthService) Refresh(context.Context, string) (dto.TokenPair, error) {
	return dto.TokenPair{}, nil
}

func (s stubAuthService) RequestPasswordReset(context.Context, string) (string, error) {
	return "", nil
}

func (s stubAuthService) ResetPassword(context.Context, string, string) error {
	return nil
}

func (s stubAuthService) GetUser(context.Context, string) (dto.UserResponse, error) {
	return s.user, nil
}

func (s stubAuthService) UpdateProfile(context.Context, string, dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	return s.user, nil
}

func TestUserProfileContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "user_profile.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	lastSeen := now.Add(-5 * time.Minute)
	user := dto.UserResponse{
		ID:         "user-1",
		Name:       "Ayesha Khan",
		Email:      "ayesha.khan@nu.edu.pk",
		Role:       models.RoleStudent,
		AvatarURL:  "https://cdn.example.com/avatars/ayesha.png",
		Department: "Computer Science",
		Semester:   5,
		LastSeen:   &lastSeen,
		CreatedAt:  now.Add(-30 * 24 * time.Hour),
	}

	svc := stubAuthService{user: user}
	h := handler.NewAuthHandler(svc, validator.New(), zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/auth", func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		c.Locals("user_role", models.RoleStudent)
		return c.Next()
	})
	h.RegisterProtected(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
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

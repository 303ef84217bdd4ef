package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fast-connect/connect-go-api/internal/dto"
)

type resetCaptureService struct {
	token    string
	password string
}

func (s *resetCaptureService) Register(context.Context, dto.RegisterRequest) (dto.AuthResponse, error) {
	return dto.AuthResponse{}, nil
}

func (s *resetCaptureService) Login(context.Context, dto.LoginRequest) (dto.AuthResponse, error) {
	return dto.AuthResponse{}, nil
}

func (s *resetCaptureService) Refresh(context.Context, string) (dto.TokenPair, error) {
	return dto.TokenPair{}, nil
}

func (s *resetCaptureService) RequestPasswordReset(context.Context, string) (string, error) {
	return "", nil
}

func (s *resetCaptureService) ResetPassword(_ context.Context, token, newPassword string) error {
	s.token = token
	s.password = newPassword
	return nil
}

func (s *resetCaptureService) GetUser(context.Context, string) (dto.UserResponse, error) {
	return dto.UserResponse{}, nil
}

func (s *resetCaptureService) UpdateProfile(context.Context, string, dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	return dto.UserResponse{}, nil
}

func TestConfirmResetForwardsNewPassword(t *testing.T) {
	svc := &resetCaptureService{}
	h := NewAuthHandler(svc, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	app := fiber.New()
	h.Register(app.Group("/api/v1/auth"))

	body, err := json.Marshal(map[string]string{
		"token":        "reset-token-1",
		"new_password": "brand-new-password",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset/confirm", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, "reset-token-1", svc.token)
	require.Equal(t, "brand-new-password", svc.password)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
	"github.com/fast-connect/connect-go-api/internal/repository"
)

// Auth failure modes callers can branch on.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidResetToken  = errors.New("password reset token invalid or expired")
	ErrInvalidRefresh     = errors.New("refresh token invalid or expired")
)

const resetTokenPrefix = "reset:"

// AuthTokenConfig carries the signing configuration for issued tokens.
type AuthTokenConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// AuthService registers, authenticates and manages user accounts.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (dto.TokenPair, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetUser(ctx context.Context, id string) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	redis     *redis.Client
	tokens    AuthTokenConfig
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs an auth service.
func NewAuthService(users repository.UserRepository, redisClient *redis.Client, tokens AuthTokenConfig, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		redis:     redisClient,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(payload.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		Department:   strings.TrimSpace(payload.Department),
		Semester:     payload.Semester,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")

	return dto.AuthResponse{User: dto.NewUserResponse(user), Tokens: pair}, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{User: dto.NewUserResponse(user), Tokens: pair}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (dto.TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.tokens.RefreshSecret), nil
	})
	if err != nil || !token.Valid {
		return dto.TokenPair{}, ErrInvalidRefresh
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return dto.TokenPair{}, ErrInvalidRefresh
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return dto.TokenPair{}, ErrInvalidRefresh
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		return dto.TokenPair{}, ErrInvalidRefresh
	}

	return s.issueTokens(user)
}

// RequestPasswordReset stores a single-use token in Redis with a short TTL
// and returns it. Delivery (email) is the caller's concern; looking up an
// unknown email is reported as success to avoid account enumeration.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	token := uuid.NewString()
	if err := s.redis.Set(ctx, resetTokenPrefix+token, user.ID, 30*time.Minute).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	userID, err := s.redis.GetDel(ctx, resetTokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrInvalidResetToken
		}
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.users.Update(ctx, &user)
}

func (s *authService) GetUser(ctx context.Context, id string) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID string, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if payload.Name != nil {
		user.Name = strings.TrimSpace(*payload.Name)
	}
	if payload.AvatarURL != nil {
		user.AvatarURL = *payload.AvatarURL
	}
	if payload.Department != nil {
		user.Department = strings.TrimSpace(*payload.Department)
	}
	if payload.Semester != nil {
		user.Semester = *payload.Semester
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) issueTokens(user models.User) (dto.TokenPair, error) {
	now := s.now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.AvatarURL,
		"role":   user.Role,
		"iat":    now.Unix(),
		"exp":    now.Add(s.tokens.AccessTTL).Unix(),
	})
	accessString, err := access.SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return dto.TokenPair{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.tokens.RefreshTTL).Unix(),
	})
	refreshString, err := refresh.SignedString([]byte(s.tokens.RefreshSecret))
	if err != nil {
		return dto.TokenPair{}, err
	}

	return dto.TokenPair{AccessToken: accessString, RefreshToken: refreshString}, nil
}

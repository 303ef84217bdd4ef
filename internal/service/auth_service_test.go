package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
)

type authUserRepoStub struct {
	byID    map[string]models.User
	byEmail map[string]models.User
}

func newAuthUserRepoStub() *authUserRepoStub {
	return &authUserRepoStub{byID: map[string]models.User{}, byEmail: map[string]models.User{}}
}

func (u *authUserRepoStub) Create(ctx context.Context, user *models.User) error {
	u.byID[user.ID] = *user
	u.byEmail[user.Email] = *user
	return nil
}

func (u *authUserRepoStub) GetByID(ctx context.Context, id string) (models.User, error) {
	user, ok := u.byID[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (u *authUserRepoStub) GetByEmail(ctx context.Context, email string) (models.User, error) {
	user, ok := u.byEmail[email]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (u *authUserRepoStub) Update(ctx context.Context, user *models.User) error {
	u.byID[user.ID] = *user
	u.byEmail[user.Email] = *user
	return nil
}

func (u *authUserRepoStub) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	return nil
}

func (u *authUserRepoStub) Search(ctx context.Context, term, excludeID string, limit int) ([]models.User, error) {
	return nil, nil
}

func newAuthFixture(t *testing.T, users *authUserRepoStub) AuthService {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	tokens := AuthTokenConfig{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	return NewAuthService(users, client, tokens, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestRegisterIssuesTokens(t *testing.T) {
	users := newAuthUserRepoStub()
	svc := newAuthFixture(t, users)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ayesha Khan",
		Email:    "Ayesha.Khan@nu.edu.pk",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, "ayesha.khan@nu.edu.pk", resp.User.Email)
	require.Equal(t, models.RoleStudent, resp.User.Role)
	require.NotEmpty(t, resp.Tokens.AccessToken)
	require.NotEmpty(t, resp.Tokens.RefreshToken)

	stored := users.byEmail["ayesha.khan@nu.edu.pk"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Tokens.AccessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	require.Equal(t, stored.ID, claims["sub"])
	require.Equal(t, models.RoleStudent, claims["role"])
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := newAuthUserRepoStub()
	users.byEmail["taken@nu.edu.pk"] = models.User{ID: "user-1", Email: "taken@nu.edu.pk"}
	svc := newAuthFixture(t, users)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Someone Else",
		Email:    "taken@nu.edu.pk",
		Password: "password123",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newAuthUserRepoStub()
	users.byEmail["ali@nu.edu.pk"] = models.User{ID: "user-1", Email: "ali@nu.edu.pk", PasswordHash: string(hash)}
	svc := newAuthFixture(t, users)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "ali@nu.edu.pk", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@nu.edu.pk", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	users := newAuthUserRepoStub()
	svc := newAuthFixture(t, users)

	registered, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Bilal Ahmed",
		Email:    "bilal@nu.edu.pk",
		Password: "password123",
	})
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), registered.Tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	_, err = svc.Refresh(context.Background(), registered.Tokens.AccessToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = svc.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)

	users := newAuthUserRepoStub()
	user := models.User{ID: "user-1", Email: "sara@nu.edu.pk", PasswordHash: string(hash)}
	users.byID[user.ID] = user
	users.byEmail[user.Email] = user
	svc := newAuthFixture(t, users)

	token, err := svc.RequestPasswordReset(context.Background(), "sara@nu.edu.pk")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password-1"))

	updated := users.byID["user-1"]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password-1")))

	// tokens are single use
	require.ErrorIs(t, svc.ResetPassword(context.Background(), token, "another-password"), ErrInvalidResetToken)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc := newAuthFixture(t, newAuthUserRepoStub())

	token, err := svc.RequestPasswordReset(context.Background(), "ghost@nu.edu.pk")
	require.NoError(t, err)
	require.Empty(t, token)
}

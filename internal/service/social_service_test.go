package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fast-connect/connect-go-api/internal/dto"
	"github.com/fast-connect/connect-go-api/internal/models"
)

type socialRepoStub struct {
	friends  bool
	pending  bool
	request  models.FriendRequest
	created  *models.FriendRequest
	accepted *models.FriendRequest
	status   models.FriendRequestStatus
	edges    []models.FriendEdge
}

func (s *socialRepoStub) CreateRequest(ctx context.Context, request *models.FriendRequest) error {
	s.created = request
	return nil
}

func (s *socialRepoStub) GetRequest(ctx context.Context, id string) (models.FriendRequest, error) {
	return s.request, nil
}

func (s *socialRepoStub) PendingBetween(ctx context.Context, userA, userB string) (bool, error) {
	return s.pending, nil
}

func (s *socialRepoStub) UpdateRequestStatus(ctx context.Context, id string, status models.FriendRequestStatus) error {
	s.status = status
	return nil
}

func (s *socialRepoStub) ListIncoming(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return nil, nil
}

func (s *socialRepoStub) ListOutgoing(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return nil, nil
}

func (s *socialRepoStub) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	return s.friends, nil
}

func (s *socialRepoStub) AcceptRequest(ctx context.Context, request models.FriendRequest) error {
	s.accepted = &request
	return nil
}

func (s *socialRepoStub) RemoveFriendship(ctx context.Context, userA, userB string) error {
	return nil
}

func (s *socialRepoStub) ListFriends(ctx context.Context, userID string) ([]models.FriendEdge, error) {
	return s.edges, nil
}

type userRepoStub struct {
	users    map[string]models.User
	lastSeen map[string]time.Time
}

func (u *userRepoStub) Create(ctx context.Context, user *models.User) error { return nil }

func (u *userRepoStub) GetByID(ctx context.Context, id string) (models.User, error) {
	return u.users[id], nil
}

func (u *userRepoStub) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return models.User{}, nil
}

func (u *userRepoStub) Update(ctx context.Context, user *models.User) error { return nil }

func (u *userRepoStub) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	if u.lastSeen == nil {
		u.lastSeen = map[string]time.Time{}
	}
	u.lastSeen[id] = at
	return nil
}

func (u *userRepoStub) Search(ctx context.Context, term, excludeID string, limit int) ([]models.User, error) {
	return nil, nil
}

func newSocialFixture(t *testing.T, social *socialRepoStub, users *userRepoStub) SocialService {
	t.Helper()
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSocialService(social, users, client, time.Minute, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestSendRequestRejectsSelf(t *testing.T) {
	svc := newSocialFixture(t, &socialRepoStub{}, &userRepoStub{})

	_, err := svc.SendRequest(context.Background(), "user-1", dto.FriendRequestCreate{ReceiverID: "user-1"})
	require.ErrorIs(t, err, ErrSelfFriendRequest)
}

func TestSendRequestRejectsExistingFriendship(t *testing.T) {
	svc := newSocialFixture(t, &socialRepoStub{friends: true}, &userRepoStub{})

	_, err := svc.SendRequest(context.Background(), "user-1", dto.FriendRequestCreate{ReceiverID: "user-2"})
	require.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestSendRequestRejectsDuplicatePending(t *testing.T) {
	svc := newSocialFixture(t, &socialRepoStub{pending: true}, &userRepoStub{})

	_, err := svc.SendRequest(context.Background(), "user-1", dto.FriendRequestCreate{ReceiverID: "user-2"})
	require.ErrorIs(t, err, ErrFriendRequestExists)
}

func TestSendRequestDenormalizesNames(t *testing.T) {
	social := &socialRepoStub{}
	users := &userRepoStub{users: map[string]models.User{
		"user-1": {ID: "user-1", Name: "Ayesha Khan"},
		"user-2": {ID: "user-2", Name: "Bilal Ahmed", AvatarURL: "https://cdn.example.com/b.png"},
	}}
	svc := newSocialFixture(t, social, users)

	resp, err := svc.SendRequest(context.Background(), "user-1", dto.FriendRequestCreate{ReceiverID: "user-2"})
	require.NoError(t, err)
	require.NotNil(t, social.created)
	require.Equal(t, "Ayesha Khan", resp.SenderName)
	require.Equal(t, "Bilal Ahmed", resp.ReceiverName)
	require.Equal(t, string(models.FriendRequestPending), resp.Status)
}

func TestAcceptRequestReceiverOnly(t *testing.T) {
	social := &socialRepoStub{request: models.FriendRequest{
		ID:         "req-1",
		SenderID:   "user-1",
		ReceiverID: "user-2",
		Status:     models.FriendRequestPending,
	}}
	svc := newSocialFixture(t, social, &userRepoStub{})

	err := svc.AcceptRequest(context.Background(), "user-1", "req-1")
	require.ErrorIs(t, err, ErrFriendRequestNotYours)

	err = svc.AcceptRequest(context.Background(), "user-2", "req-1")
	require.NoError(t, err)
	require.NotNil(t, social.accepted)
}

func TestAcceptRequestAlreadySettled(t *testing.T) {
	social := &socialRepoStub{request: models.FriendRequest{
		ID:         "req-1",
		ReceiverID: "user-2",
		Status:     models.FriendRequestDeclined,
	}}
	svc := newSocialFixture(t, social, &userRepoStub{})

	err := svc.AcceptRequest(context.Background(), "user-2", "req-1")
	require.ErrorIs(t, err, ErrFriendRequestSettled)
}

func TestCancelRequestSenderOnly(t *testing.T) {
	social := &socialRepoStub{request: models.FriendRequest{
		ID:         "req-1",
		SenderID:   "user-1",
		ReceiverID: "user-2",
		Status:     models.FriendRequestPending,
	}}
	svc := newSocialFixture(t, social, &userRepoStub{})

	require.ErrorIs(t, svc.CancelRequest(context.Background(), "user-2", "req-1"), ErrFriendRequestNotYours)
	require.NoError(t, svc.CancelRequest(context.Background(), "user-1", "req-1"))
	require.Equal(t, models.FriendRequestCancelled, social.status)
}

func TestHeartbeatAndPresence(t *testing.T) {
	users := &userRepoStub{users: map[string]models.User{}}
	svc := newSocialFixture(t, &socialRepoStub{}, users)

	require.NoError(t, svc.Heartbeat(context.Background(), "user-1"))
	require.Contains(t, users.lastSeen, "user-1")

	statuses, err := svc.Presence(context.Background(), []string{"user-1", "user-2"})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	require.True(t, statuses[0].IsOnline)
	require.False(t, statuses[1].IsOnline)
}

func TestListFriendsCarriesPresence(t *testing.T) {
	social := &socialRepoStub{edges: []models.FriendEdge{
		{UserID: "user-1", FriendID: "user-2", FriendName: "Bilal Ahmed"},
		{UserID: "user-1", FriendID: "user-3", FriendName: "Sara Malik"},
	}}
	users := &userRepoStub{users: map[string]models.User{}}
	svc := newSocialFixture(t, social, users)

	// only user-2 has a live presence lease
	require.NoError(t, svc.Heartbeat(context.Background(), "user-2"))

	friends, err := svc.ListFriends(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, friends, 2)
	require.Equal(t, "Bilal Ahmed", friends[0].Name)
	require.True(t, friends[0].IsOnline)
	require.False(t, friends[1].IsOnline)
}

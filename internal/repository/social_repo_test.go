package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func TestAcceptRequestCreatesBothEdges(t *testing.T) {
	db := setupTestDB(t, &models.FriendRequest{}, &models.FriendEdge{})
	repo := NewSocialRepository(db)
	ctx := context.Background()

	request := models.FriendRequest{
		ID:           "req-accept-1",
		SenderID:     "accept-sender",
		SenderName:   "Ayesha Khan",
		ReceiverID:   "accept-receiver",
		ReceiverName: "Bilal Ahmed",
		Status:       models.FriendRequestPending,
	}
	require.NoError(t, repo.CreateRequest(ctx, &request))

	require.NoError(t, repo.AcceptRequest(ctx, request))

	stored, err := repo.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	require.Equal(t, models.FriendRequestAccepted, stored.Status)

	forward, err := repo.AreFriends(ctx, "accept-sender", "accept-receiver")
	require.NoError(t, err)
	require.True(t, forward)

	backward, err := repo.AreFriends(ctx, "accept-receiver", "accept-sender")
	require.NoError(t, err)
	require.True(t, backward)

	edges, err := repo.ListFriends(ctx, "accept-receiver")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, "Ayesha Khan", edges[0].FriendName)
}

func TestAcceptRequestIsSingleUse(t *testing.T) {
	db := setupTestDB(t, &models.FriendRequest{}, &models.FriendEdge{})
	repo := NewSocialRepository(db)
	ctx := context.Background()

	request := models.FriendRequest{
		ID:         "req-double-1",
		SenderID:   "double-sender",
		ReceiverID: "double-receiver",
		Status:     models.FriendRequestPending,
	}
	require.NoError(t, repo.CreateRequest(ctx, &request))

	require.NoError(t, repo.AcceptRequest(ctx, request))
	require.ErrorIs(t, repo.AcceptRequest(ctx, request), gorm.ErrRecordNotFound)
}

func TestPendingBetweenIsDirectionless(t *testing.T) {
	db := setupTestDB(t, &models.FriendRequest{}, &models.FriendEdge{})
	repo := NewSocialRepository(db)
	ctx := context.Background()

	request := models.FriendRequest{
		ID:         "req-pending-1",
		SenderID:   "pending-a",
		ReceiverID: "pending-b",
		Status:     models.FriendRequestPending,
	}
	require.NoError(t, repo.CreateRequest(ctx, &request))

	pending, err := repo.PendingBetween(ctx, "pending-b", "pending-a")
	require.NoError(t, err)
	require.True(t, pending)

	require.NoError(t, repo.UpdateRequestStatus(ctx, request.ID, models.FriendRequestDeclined))

	pending, err = repo.PendingBetween(ctx, "pending-a", "pending-b")
	require.NoError(t, err)
	require.False(t, pending)
}

func TestRemoveFriendshipDeletesBothDirections(t *testing.T) {
	db := setupTestDB(t, &models.FriendRequest{}, &models.FriendEdge{})
	repo := NewSocialRepository(db)
	ctx := context.Background()

	request := models.FriendRequest{
		ID:         "req-remove-1",
		SenderID:   "remove-a",
		ReceiverID: "remove-b",
		Status:     models.FriendRequestPending,
	}
	require.NoError(t, repo.CreateRequest(ctx, &request))
	require.NoError(t, repo.AcceptRequest(ctx, request))

	require.NoError(t, repo.RemoveFriendship(ctx, "remove-a", "remove-b"))

	forward, err := repo.AreFriends(ctx, "remove-a", "remove-b")
	require.NoError(t, err)
	require.False(t, forward)

	backward, err := repo.AreFriends(ctx, "remove-b", "remove-a")
	require.NoError(t, err)
	require.False(t, backward)
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

func discussionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDB(t, &models.Post{}, &models.Comment{}, &models.Vote{})
}

func TestToggleVoteCastRetractFlip(t *testing.T) {
	db := discussionTestDB(t)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	post := models.Post{ID: "vote-post-1", Title: "Vote test", Content: "x", Category: "general", AuthorID: "vote-a"}
	require.NoError(t, repo.CreatePost(ctx, &post))

	// cast
	state, err := repo.ToggleVote(ctx, models.VoteEntityPost, post.ID, "vote-a", models.VoteUp)
	require.NoError(t, err)
	require.Equal(t, 1, state.Upvotes)
	require.Equal(t, 0, state.Downvotes)
	require.Equal(t, models.VoteUp, state.UserVote)

	// same direction retracts
	state, err = repo.ToggleVote(ctx, models.VoteEntityPost, post.ID, "vote-a", models.VoteUp)
	require.NoError(t, err)
	require.Equal(t, 0, state.Upvotes)
	require.Equal(t, 0, state.UserVote)

	// cast then flip
	_, err = repo.ToggleVote(ctx, models.VoteEntityPost, post.ID, "vote-a", models.VoteUp)
	require.NoError(t, err)
	state, err = repo.ToggleVote(ctx, models.VoteEntityPost, post.ID, "vote-a", models.VoteDown)
	require.NoError(t, err)
	require.Equal(t, 0, state.Upvotes)
	require.Equal(t, 1, state.Downvotes)
	require.Equal(t, models.VoteDown, state.UserVote)

	up, down, err := repo.VoterIDs(ctx, models.VoteEntityPost, post.ID)
	require.NoError(t, err)
	require.Empty(t, up)
	require.Equal(t, []string{"vote-a"}, down)

	// the denormalized counters on the post row follow the flip too
	stored, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Upvotes)
	require.Equal(t, 1, stored.Downvotes)
}

func TestCommentCountTracksCreateAndDelete(t *testing.T) {
	db := discussionTestDB(t)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	post := models.Post{ID: "count-post-1", Title: "Count test", Content: "x", Category: "general", AuthorID: "count-a"}
	require.NoError(t, repo.CreatePost(ctx, &post))

	comment := models.Comment{ID: "count-comment-1", PostID: post.ID, AuthorID: "count-a", Content: "first"}
	require.NoError(t, repo.CreateComment(ctx, &comment))

	stored, err := repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, stored.CommentCount)

	require.NoError(t, repo.DeleteComment(ctx, comment))

	stored, err = repo.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.CommentCount)
}

func TestDeleteCommentTombstonesWhenReplied(t *testing.T) {
	db := discussionTestDB(t)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	post := models.Post{ID: "tomb-post-1", Title: "Tombstone test", Content: "x", Category: "general", AuthorID: "tomb-a"}
	require.NoError(t, repo.CreatePost(ctx, &post))

	parent := models.Comment{ID: "tomb-parent-1", PostID: post.ID, AuthorID: "tomb-a", Content: "parent"}
	require.NoError(t, repo.CreateComment(ctx, &parent))

	parentID := parent.ID
	reply := models.Comment{ID: "tomb-reply-1", PostID: post.ID, ParentID: &parentID, AuthorID: "tomb-b", Content: "reply"}
	require.NoError(t, repo.CreateComment(ctx, &reply))

	require.NoError(t, repo.DeleteComment(ctx, parent))

	stored, err := repo.GetComment(ctx, parent.ID)
	require.NoError(t, err)
	require.True(t, stored.IsDeleted)
	require.Empty(t, stored.Content)

	// the reply stays
	_, err = repo.GetComment(ctx, reply.ID)
	require.NoError(t, err)

	// leaf delete removes the row entirely
	require.NoError(t, repo.DeleteComment(ctx, reply))
	_, err = repo.GetComment(ctx, reply.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeletePostCascadesCommentsAndVotes(t *testing.T) {
	db := discussionTestDB(t)
	repo := NewDiscussionRepository(db)
	ctx := context.Background()

	post := models.Post{ID: "cascade-post-1", Title: "Cascade test", Content: "x", Category: "general", AuthorID: "cascade-a"}
	require.NoError(t, repo.CreatePost(ctx, &post))

	comment := models.Comment{ID: "cascade-comment-1", PostID: post.ID, AuthorID: "cascade-b", Content: "bye"}
	require.NoError(t, repo.CreateComment(ctx, &comment))

	_, err := repo.ToggleVote(ctx, models.VoteEntityPost, post.ID, "cascade-b", models.VoteUp)
	require.NoError(t, err)

	require.NoError(t, repo.DeletePost(ctx, post.ID))

	_, err = repo.GetPost(ctx, post.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetComment(ctx, comment.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var votes int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where("entity_type = ? AND entity_id = ?", models.VoteEntityPost, post.ID).
		Count(&votes).Error)
	require.Zero(t, votes)
}

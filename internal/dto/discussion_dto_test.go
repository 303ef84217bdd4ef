package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fast-connect/connect-go-api/internal/models"
)

func TestBuildCommentTreeNestsReplies(t *testing.T) {
	now := time.Now()
	rootID := "c-1"
	childID := "c-2"

	comments := []models.Comment{
		{ID: rootID, PostID: "p-1", AuthorID: "u-1", Content: "root", CreatedAt: now},
		{ID: childID, PostID: "p-1", ParentID: &rootID, AuthorID: "u-2", Content: "child", CreatedAt: now.Add(time.Minute)},
		{ID: "c-3", PostID: "p-1", ParentID: &childID, AuthorID: "u-1", Content: "grandchild", CreatedAt: now.Add(2 * time.Minute)},
	}

	tree := BuildCommentTree(comments)
	require.Len(t, tree, 1)
	require.Equal(t, "c-1", tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	require.Equal(t, "c-2", tree[0].Replies[0].ID)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	require.Equal(t, "c-3", tree[0].Replies[0].Replies[0].ID)
}

func TestBuildCommentTreeSurfacesOrphans(t *testing.T) {
	missing := "gone"
	comments := []models.Comment{
		{ID: "c-1", PostID: "p-1", Content: "root"},
		{ID: "c-2", PostID: "p-1", ParentID: &missing, Content: "orphan"},
	}

	tree := BuildCommentTree(comments)
	require.Len(t, tree, 2)
}

func TestBuildCommentTreeBlanksTombstones(t *testing.T) {
	comments := []models.Comment{
		{ID: "c-1", PostID: "p-1", Content: "should not leak", IsDeleted: true},
	}

	tree := BuildCommentTree(comments)
	require.Len(t, tree, 1)
	require.True(t, tree[0].IsDeleted)
	require.Empty(t, tree[0].Content)
}

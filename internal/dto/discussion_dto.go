package dto

import (
	"time"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// PostCreateRequest publishes a new discussion post.
type PostCreateRequest struct {
	Title    string   `json:"title" validate:"required,min=3,max=255"`
	Content  string   `json:"content" validate:"required,min=1,max=20000"`
	Category string   `json:"category" validate:"required,max=32"`
	Tags     []string `json:"tags" validate:"omitempty,max=8,dive,max=32"`
}

// CommentCreateRequest adds a comment, optionally nested under a parent.
type CommentCreateRequest struct {
	ParentID *string `json:"parent_id" validate:"omitempty,max=64"`
	Content  string  `json:"content" validate:"required,min=1,max=10000"`
}

// VoteRequest casts or toggles a vote.
type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// VoteResponse reflects the vote state after a toggle.
type VoteResponse struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	UserVote  int `json:"user_vote"`
}

// PostResponse is a serialized post, including the voter ID sets when loaded.
type PostResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	AuthorID     string    `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Upvotes      int       `json:"upvotes"`
	Downvotes    int       `json:"downvotes"`
	UpvotedBy    []string  `json:"upvoted_by,omitempty"`
	DownvotedBy  []string  `json:"downvoted_by,omitempty"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// CommentNode is one node of the display tree: the comment plus its replies
// ordered by creation time.
type CommentNode struct {
	ID           string        `json:"id"`
	PostID       string        `json:"post_id"`
	ParentID     *string       `json:"parent_id,omitempty"`
	AuthorID     string        `json:"author_id"`
	AuthorName   string        `json:"author_name"`
	AuthorAvatar string        `json:"author_avatar,omitempty"`
	Content      string        `json:"content"`
	Upvotes      int           `json:"upvotes"`
	Downvotes    int           `json:"downvotes"`
	IsDeleted    bool          `json:"is_deleted"`
	CreatedAt    time.Time     `json:"created_at"`
	Replies      []CommentNode `json:"replies"`
}

// NewPostResponse converts a post model into a DTO.
func NewPostResponse(post models.Post) PostResponse {
	return PostResponse{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		Category:     post.Category,
		Tags:         append([]string{}, post.Tags...),
		AuthorID:     post.AuthorID,
		AuthorName:   post.AuthorName,
		AuthorAvatar: post.AuthorAvatar,
		Upvotes:      post.Upvotes,
		Downvotes:    post.Downvotes,
		CommentCount: post.CommentCount,
		CreatedAt:    post.CreatedAt,
	}
}

// NewPostResponseSlice converts posts into DTOs.
func NewPostResponseSlice(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, NewPostResponse(post))
	}
	return out
}

// BuildCommentTree assembles the nested display tree from the flat comment
// list in one pass over an ID-keyed map; replies at every level keep their
// creation order. Tombstoned comments render with empty content.
func BuildCommentTree(comments []models.Comment) []CommentNode {
	nodes := make(map[string]*CommentNode, len(comments))
	order := make([]string, 0, len(comments))

	for _, comment := range comments {
		node := &CommentNode{
			ID:           comment.ID,
			PostID:       comment.PostID,
			ParentID:     comment.ParentID,
			AuthorID:     comment.AuthorID,
			AuthorName:   comment.AuthorName,
			AuthorAvatar: comment.AuthorAvatar,
			Content:      comment.Content,
			Upvotes:      comment.Upvotes,
			Downvotes:    comment.Downvotes,
			IsDeleted:    comment.IsDeleted,
			CreatedAt:    comment.CreatedAt,
			Replies:      []CommentNode{},
		}
		if comment.IsDeleted {
			node.Content = ""
		}
		nodes[comment.ID] = node
		order = append(order, comment.ID)
	}

	roots := make([]*CommentNode, 0)
	for _, id := range order {
		node := nodes[id]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*node.ParentID]
		if !ok {
			// Orphaned reply; surface it at the root rather than dropping it.
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, *node)
	}

	// Parents were appended before children (input is creation-ordered), so
	// nested reply slices are complete bottom-up only after a second pass.
	return materializeTree(roots, nodes)
}

func materializeTree(roots []*CommentNode, nodes map[string]*CommentNode) []CommentNode {
	var build func(node *CommentNode) CommentNode
	build = func(node *CommentNode) CommentNode {
		out := *node
		out.Replies = make([]CommentNode, 0, len(node.Replies))
		for i := range node.Replies {
			child := nodes[node.Replies[i].ID]
			out.Replies = append(out.Replies, build(child))
		}
		return out
	}

	out := make([]CommentNode, 0, len(roots))
	for _, root := range roots {
		out = append(out, build(root))
	}
	return out
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post categories accepted by the discussion board.
var PostCategories = []string{"general", "academics", "events", "placements", "hostel", "sports"}

// ValidPostCategory reports whether the category is one of the known values.
func ValidPostCategory(category string) bool {
	for _, c := range PostCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Vote entity kinds.
const (
	VoteEntityPost    = "post"
	VoteEntityComment = "comment"
)

// Vote directions.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Post is a discussion board entry. Vote counters and comment_count are
// denormalized; the votes table is the source of truth for who voted.
type Post struct {
	ID           string                      `gorm:"primaryKey;size:64" json:"id"`
	Title        string                      `gorm:"size:255;not null" json:"title"`
	Content      string                      `gorm:"type:text;not null" json:"content"`
	Category     string                      `gorm:"size:32;index;not null" json:"category"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	AuthorID     string                      `gorm:"size:64;index" json:"author_id"`
	AuthorName   string                      `gorm:"size:255" json:"author_name"`
	AuthorAvatar string                      `gorm:"size:512" json:"author_avatar"`
	Upvotes      int                         `gorm:"not null;default:0" json:"upvotes"`
	Downvotes    int                         `gorm:"not null;default:0" json:"downvotes"`
	CommentCount int                         `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// Comment is a reply on a post. ParentID forms an arbitrary-depth reply tree.
// A comment with replies is tombstoned on delete so children stay resolvable;
// a leaf comment is removed outright.
type Comment struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	PostID       string    `gorm:"size:64;index;not null" json:"post_id"`
	ParentID     *string   `gorm:"size:64;index" json:"parent_id"`
	AuthorID     string    `gorm:"size:64;index" json:"author_id"`
	AuthorName   string    `gorm:"size:255" json:"author_name"`
	AuthorAvatar string    `gorm:"size:512" json:"author_avatar"`
	Content      string    `gorm:"type:text" json:"content"`
	Upvotes      int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes    int       `gorm:"not null;default:0" json:"downvotes"`
	IsDeleted    bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Vote records a single user's vote on a post or comment. The unique index
// guarantees a user holds at most one direction per entity; toggling updates
// the row and the denormalized counters in one transaction.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EntityType string    `gorm:"size:16;not null;uniqueIndex:idx_vote_entity_user" json:"entity_type"`
	EntityID   string    `gorm:"size:64;not null;uniqueIndex:idx_vote_entity_user" json:"entity_id"`
	UserID     string    `gorm:"size:64;not null;uniqueIndex:idx_vote_entity_user" json:"user_id"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

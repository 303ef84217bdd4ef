package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fast-connect/connect-go-api/internal/models"
)

// Post sort orders.
const (
	PostSortRecent = "recent"
	PostSortTop    = "top"
)

// VoteState is the resulting vote position after a toggle.
type VoteState struct {
	Upvotes   int
	Downvotes int
	UserVote  int // +1, -1 or 0 when the vote was retracted
}

// DiscussionRepository persists posts, nested comments and votes.
type DiscussionRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (models.Post, error)
	ListPosts(ctx context.Context, category, tag, sort string, limit, offset int) ([]models.Post, error)
	DeletePost(ctx context.Context, id string) error

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, comment models.Comment) error
	HasReplies(ctx context.Context, commentID string) (bool, error)

	ToggleVote(ctx context.Context, entityType, entityID, userID string, value int) (VoteState, error)
	VoterIDs(ctx context.Context, entityType, entityID string) (upvotedBy, downvotedBy []string, err error)
}

type discussionRepository struct {
	db *gorm.DB
}

// NewDiscussionRepository constructs a GORM-backed discussion repository.
func NewDiscussionRepository(db *gorm.DB) DiscussionRepository {
	return &discussionRepository{db: db}
}

func (r *discussionRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *discussionRepository) GetPost(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *discussionRepository) ListPosts(ctx context.Context, category, tag, sort string, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if tag != "" {
		query = query.Where("tags LIKE ?", "%\""+tag+"\"%")
	}

	switch sort {
	case PostSortTop:
		query = query.Order("(upvotes - downvotes) DESC, created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var posts []models.Post
	if err := query.Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *discussionRepository) DeletePost(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entity_type = ? AND entity_id = ?", models.VoteEntityPost, id).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Post{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CreateComment inserts the comment and bumps the post's denormalized
// comment_count in one transaction.
func (r *discussionRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).
			Error
	})
}

func (r *discussionRepository) GetComment(ctx context.Context, id string) (models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

func (r *discussionRepository) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment removes a leaf comment outright, or tombstones one that has
// replies so the subtree stays renderable.
func (r *discussionRepository) DeleteComment(ctx context.Context, comment models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replies int64
		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ?", comment.ID).
			Count(&replies).Error; err != nil {
			return err
		}

		if replies > 0 {
			return tx.Model(&models.Comment{}).
				Where("id = ?", comment.ID).
				Updates(map[string]interface{}{"is_deleted": true, "content": ""}).
				Error
		}

		if err := tx.Where("entity_type = ? AND entity_id = ?", models.VoteEntityComment, comment.ID).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "id = ?", comment.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ? AND comment_count > 0", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count - 1")).
			Error
	})
}

func (r *discussionRepository) HasReplies(ctx context.Context, commentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_id = ?", commentID).
		Count(&count).Error
	return count > 0, err
}

// ToggleVote applies one user's vote as a single observable transition: a
// fresh vote inserts, a repeat of the same direction retracts, an opposite
// vote flips both the row and the two counters. All mutations happen in one
// transaction so a user is never in both sets.
func (r *discussionRepository) ToggleVote(ctx context.Context, entityType, entityID, userID string, value int) (VoteState, error) {
	var state VoteState
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("entity_type = ? AND entity_id = ? AND user_id = ?", entityType, entityID, userID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{EntityType: entityType, EntityID: entityID, UserID: userID, Value: value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if err := adjustVoteCounters(tx, entityType, entityID, value, +1); err != nil {
				return err
			}
			state.UserVote = value

		case err != nil:
			return err

		case existing.Value == value:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := adjustVoteCounters(tx, entityType, entityID, value, -1); err != nil {
				return err
			}
			state.UserVote = 0

		default:
			previous := existing.Value
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			if err := adjustVoteCounters(tx, entityType, entityID, previous, -1); err != nil {
				return err
			}
			if err := adjustVoteCounters(tx, entityType, entityID, value, +1); err != nil {
				return err
			}
			state.UserVote = value
		}

		return loadVoteCounters(tx, entityType, entityID, &state)
	})
	return state, err
}

func (r *discussionRepository) VoterIDs(ctx context.Context, entityType, entityID string) ([]string, []string, error) {
	var votes []models.Vote
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Find(&votes).Error; err != nil {
		return nil, nil, err
	}

	upvotedBy := make([]string, 0, len(votes))
	downvotedBy := make([]string, 0)
	for _, vote := range votes {
		if vote.Value > 0 {
			upvotedBy = append(upvotedBy, vote.UserID)
		} else {
			downvotedBy = append(downvotedBy, vote.UserID)
		}
	}
	return upvotedBy, downvotedBy, nil
}

func adjustVoteCounters(tx *gorm.DB, entityType, entityID string, direction, delta int) error {
	column := "upvotes"
	if direction < 0 {
		column = "downvotes"
	}

	var model interface{} = &models.Post{}
	if entityType == models.VoteEntityComment {
		model = &models.Comment{}
	}

	return tx.Model(model).
		Where("id = ?", entityID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).
		Error
}

func loadVoteCounters(tx *gorm.DB, entityType, entityID string, state *VoteState) error {
	if entityType == models.VoteEntityComment {
		var comment models.Comment
		if err := tx.Select("upvotes", "downvotes").First(&comment, "id = ?", entityID).Error; err != nil {
			return err
		}
		state.Upvotes = comment.Upvotes
		state.Downvotes = comment.Downvotes
		return nil
	}

	var post models.Post
	if err := tx.Select("upvotes", "downvotes").First(&post, "id = ?", entityID).Error; err != nil {
		return err
	}
	state.Upvotes = post.Upvotes
	state.Downvotes = post.Downvotes
	return nil
}

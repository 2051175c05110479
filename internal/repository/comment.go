package repository

import (
	"context"
	"errors"

	"verse/internal/cache"
	"verse/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment and reply persistence.
type CommentRepository interface {
	AddComment(ctx context.Context, comment *models.Comment) error
	GetPoemComment(ctx context.Context, poemID, commentID uint) (*models.Comment, error)
	AddReply(ctx context.Context, poemID uint, reply *models.Reply) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) AddComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, comment.PoemID)
	cache.InvalidateLists(ctx)
	return nil
}

// GetPoemComment looks up a comment scoped to its poem. A comment ID that
// exists under a different poem is treated as not found.
func (r *commentRepository) GetPoemComment(ctx context.Context, poemID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND poem_id = ?", commentID, poemID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// AddReply persists the reply. The poem ID is only used to invalidate the
// cached poem whose comment tree just changed.
func (r *commentRepository) AddReply(ctx context.Context, poemID uint, reply *models.Reply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, poemID)
	return nil
}

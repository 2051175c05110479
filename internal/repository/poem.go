package repository

import (
	"context"
	"errors"
	"fmt"

	"verse/internal/cache"
	"verse/internal/models"
	"verse/internal/observability"

	"gorm.io/gorm"
)

// PoemRepository defines the interface for poem data operations.
type PoemRepository interface {
	Create(ctx context.Context, poem *models.Poem) error
	GetByID(ctx context.Context, id uint) (*models.Poem, error)
	List(ctx context.Context, limit, offset int) ([]*models.Poem, error)
	ListByUsername(ctx context.Context, username string, limit, offset int) ([]*models.Poem, error)
	ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Poem, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Poem, error)
	Update(ctx context.Context, poemID uint, title, content string) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, poemID uint) (bool, error)
	LikedPoemIDs(ctx context.Context, userID uint) ([]uint, error)
	Like(ctx context.Context, userID, poemID uint) error
	Unlike(ctx context.Context, userID, poemID uint) error
	CountLikes(ctx context.Context, poemID uint) (int64, error)
	ReconcileLikeCount(ctx context.Context, poemID uint) error
}

type poemRepository struct {
	db *gorm.DB
}

// NewPoemRepository creates a new poem repository.
func NewPoemRepository(db *gorm.DB) PoemRepository {
	return &poemRepository{db: db}
}

func (r *poemRepository) Create(ctx context.Context, poem *models.Poem) error {
	defer observability.TrackQuery("create", "poems")()
	if err := r.db.WithContext(ctx).Create(poem).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateLists(ctx)
	return nil
}

func (r *poemRepository) GetByID(ctx context.Context, id uint) (*models.Poem, error) {
	var poem models.Poem
	key := cache.PoemKey(id)

	err := cache.Aside(ctx, key, &poem, cache.PoemTTL, func() error {
		if err := r.applyPoemDetails(r.db.WithContext(ctx)).
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC")
			}).
			Preload("Comments.Replies", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at ASC")
			}).
			First(&poem, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Poem", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &poem, nil
}

// listPage derives the page index a limit/offset pair addresses, for cache
// keying. Listing callers always page with a fixed limit.
func listPage(limit, offset int) int {
	if limit <= 0 {
		return 0
	}
	return offset / limit
}

func (r *poemRepository) List(ctx context.Context, limit, offset int) ([]*models.Poem, error) {
	var poems []*models.Poem
	key := cache.PoemListKey("all", listPage(limit, offset))

	err := cache.Aside(ctx, key, &poems, cache.PoemListTTL, func() error {
		if err := r.applyPoemDetails(r.db.WithContext(ctx)).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&poems).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poems, nil
}

func (r *poemRepository) ListByUsername(ctx context.Context, username string, limit, offset int) ([]*models.Poem, error) {
	var poems []*models.Poem
	key := cache.PoemListKey("user:"+username, listPage(limit, offset))

	err := cache.Aside(ctx, key, &poems, cache.PoemListTTL, func() error {
		if err := r.applyPoemDetails(r.db.WithContext(ctx)).
			Where("poems.username = ?", username).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&poems).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poems, nil
}

func (r *poemRepository) ListLikedBy(ctx context.Context, userID uint, limit, offset int) ([]*models.Poem, error) {
	var poems []*models.Poem
	key := cache.PoemListKey(fmt.Sprintf("likes:%d", userID), listPage(limit, offset))

	err := cache.Aside(ctx, key, &poems, cache.PoemListTTL, func() error {
		if err := r.applyPoemDetails(r.db.WithContext(ctx)).
			Joins("JOIN likes ON likes.poem_id = poems.id").
			Where("likes.user_id = ?", userID).
			Order("poems.created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&poems).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poems, nil
}

func (r *poemRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Poem, error) {
	var poems []*models.Poem
	key := cache.PoemListKey("search:"+query, listPage(limit, offset))

	err := cache.Aside(ctx, key, &poems, cache.PoemListTTL, func() error {
		like := "%" + query + "%"
		if err := r.applyPoemDetails(r.db.WithContext(ctx)).
			Where("title ILIKE ? OR content ILIKE ?", like, like).
			Order("created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&poems).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return poems, nil
}

// applyPoemDetails adds the comment count subquery so a single query carries
// everything a list row needs.
func (r *poemRepository) applyPoemDetails(db *gorm.DB) *gorm.DB {
	return db.Select("poems.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.poem_id = poems.id AND comments.deleted_at IS NULL) as comments_count")
}

// Update rewrites the poem's title and content only. Ownership fields and
// counters are never touched here.
func (r *poemRepository) Update(ctx context.Context, poemID uint, title, content string) error {
	defer observability.TrackQuery("update", "poems")()
	if err := r.db.WithContext(ctx).
		Model(&models.Poem{}).
		Where("id = ?", poemID).
		Updates(map[string]any{"title": title, "content": content}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, poemID)
	cache.InvalidateLists(ctx)
	return nil
}

// Delete removes the poem with its comments, replies and likes in one
// transaction.
func (r *poemRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("comment_id IN (?)", tx.Model(&models.Comment{}).Select("id").Where("poem_id = ?", id)).
			Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("poem_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("poem_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Poem{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidatePoem(ctx, id)
	cache.InvalidateLists(ctx)
	return nil
}

func (r *poemRepository) IsLiked(ctx context.Context, userID, poemID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND poem_id = ?", userID, poemID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *poemRepository) LikedPoemIDs(ctx context.Context, userID uint) ([]uint, error) {
	var poemIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Pluck("poem_id", &poemIDs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return poemIDs, nil
}

// Like records userID's like on poemID and bumps the poem's counter in the
// same transaction. A like that already exists is a no-op; the counter is
// only incremented when a row was actually inserted.
func (r *poemRepository) Like(ctx context.Context, userID, poemID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// INSERT ... ON CONFLICT DO NOTHING is atomic under concurrent toggles
		res := tx.Exec(
			`INSERT INTO likes (user_id, poem_id, created_at)
			 VALUES (?, ?, NOW())
			 ON CONFLICT (user_id, poem_id) DO NOTHING`,
			userID, poemID,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&models.Poem{}).
			Where("id = ?", poemID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	observability.LikeToggles.WithLabelValues("like").Inc()
	cache.InvalidatePoem(ctx, poemID)
	cache.InvalidateLists(ctx)
	return nil
}

// Unlike removes userID's like on poemID and decrements the counter in the
// same transaction. The decrement is guarded so the counter can never go
// negative; a guard miss after a successful row delete means the counter and
// the like rows disagree, which is reported rather than papered over.
func (r *poemRepository) Unlike(ctx context.Context, userID, poemID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().
			Where("user_id = ? AND poem_id = ?", userID, poemID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		dec := tx.Model(&models.Poem{}).
			Where("id = ? AND likes_count > 0", poemID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1"))
		if dec.Error != nil {
			return dec.Error
		}
		if dec.RowsAffected == 0 {
			return fmt.Errorf("like counter for poem %d out of sync with like rows", poemID)
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	observability.LikeToggles.WithLabelValues("unlike").Inc()
	cache.InvalidatePoem(ctx, poemID)
	cache.InvalidateLists(ctx)
	return nil
}

func (r *poemRepository) CountLikes(ctx context.Context, poemID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("poem_id = ?", poemID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ReconcileLikeCount rewrites the poem's counter from the like rows. This is
// the repair path for a counter that has drifted.
func (r *poemRepository) ReconcileLikeCount(ctx context.Context, poemID uint) error {
	err := r.db.WithContext(ctx).Exec(
		`UPDATE poems SET likes_count = (SELECT COUNT(*) FROM likes WHERE likes.poem_id = ?) WHERE id = ?`,
		poemID, poemID,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePoem(ctx, poemID)
	return nil
}

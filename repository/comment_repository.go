package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipeshare/models"
)

// CommentRepository is the persistence boundary for comments. Every operation
// is atomic at single-row granularity; like/unlike pair their set mutation
// with the counter refresh inside one transaction. Soft-deleted rows are
// invisible to all lookups, so a deleted comment reads the same as one that
// never existed.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a CommentRepository on top of a gorm connection.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Insert stores a new comment and assigns its ID.
func (r *CommentRepository) Insert(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// FindByID looks a comment up by (recipe, comment) — the recipe scope is part
// of the lookup key. Returns (nil, nil) when the comment does not exist, is
// deleted, or belongs to a different recipe.
func (r *CommentRepository) FindByID(ctx context.Context, recipeID, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND id = ?", recipeID, commentID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindAnyByID looks a comment up by ID alone. Like/unlike are addressed by
// comment ID only, so they use this instead of the recipe-scoped lookup.
func (r *CommentRepository) FindAnyByID(ctx context.Context, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, commentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindPage returns one page of a recipe's comments, newest first, plus the
// total count of live comments for that recipe. A page past the end yields an
// empty slice with the same total.
func (r *CommentRepository) FindPage(ctx context.Context, recipeID uint, page, limit int) ([]models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID)

	var total int64
	if err := q.Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := []models.Comment{}
	err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// AddLike adds userID to the comment's like set and refreshes the likes
// counter to the set size, in one transaction. The composite unique index on
// comment_likes makes a repeated like by the same user a no-op, reported via
// liked=false. The returned count is always the current set size.
func (r *CommentRepository) AddLike(ctx context.Context, commentID, userID uint) (liked bool, likes int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CommentLike{CommentID: commentID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}
		liked = res.RowsAffected > 0

		if err := tx.Model(&models.CommentLike{}).
			Where("comment_id = ?", commentID).
			Count(&likes).Error; err != nil {
			return err
		}
		if !liked {
			return nil
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("likes", likes).Error
	})
	return liked, likes, err
}

// RemoveLike removes userID from the like set and refreshes the counter.
// Removing a user who never liked the comment is a no-op (removed=false);
// the counter is recomputed from the set so it cannot go negative.
func (r *CommentRepository) RemoveLike(ctx context.Context, commentID, userID uint) (removed bool, likes int64, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected > 0

		if err := tx.Model(&models.CommentLike{}).
			Where("comment_id = ?", commentID).
			Count(&likes).Error; err != nil {
			return err
		}
		if !removed {
			return nil
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("likes", likes).Error
	})
	return removed, likes, err
}

// MarkDeleted soft-deletes a comment. The row survives for the benefit of
// existing replies; reads stop seeing it immediately.
func (r *CommentRepository) MarkDeleted(ctx context.Context, commentID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, commentID).Error
}

package services

import (
	"context"

	"gorm.io/gorm"

	"recipeshare/models"
)

// RecipeRatingService recomputes recipe aggregates from live comments. Only
// top-level comments feed the rating average; replies never do, rated or not.
type RecipeRatingService struct {
	db *gorm.DB
}

// NewRecipeRatingService creates a RecipeRatingService.
func NewRecipeRatingService(db *gorm.DB) *RecipeRatingService {
	return &RecipeRatingService{db: db}
}

// Refresh recalculates rating_avg, rating_count, and comment_count for one
// recipe inside a single transaction.
func (s *RecipeRatingService) Refresh(ctx context.Context, recipeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var agg struct {
			Avg float64
			Cnt int64
		}
		err := tx.Model(&models.Comment{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(rating) AS cnt").
			Where("recipe_id = ? AND parent_id IS NULL AND rating IS NOT NULL", recipeID).
			Scan(&agg).Error
		if err != nil {
			return err
		}

		var comments int64
		err = tx.Model(&models.Comment{}).
			Where("recipe_id = ?", recipeID).
			Count(&comments).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Recipe{}).
			Where("id = ?", recipeID).
			UpdateColumns(map[string]interface{}{
				"rating_avg":    agg.Avg,
				"rating_count":  agg.Cnt,
				"comment_count": comments,
			}).Error
	})
}

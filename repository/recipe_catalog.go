package repository

import (
	"context"

	"gorm.io/gorm"

	"recipeshare/models"
)

// RecipeCatalog answers existence checks against the recipes table. The
// comment subsystem treats recipes as opaque; this is its only view of them.
type RecipeCatalog struct {
	db *gorm.DB
}

// NewRecipeCatalog creates a RecipeCatalog.
func NewRecipeCatalog(db *gorm.DB) *RecipeCatalog {
	return &RecipeCatalog{db: db}
}

// Exists reports whether a live recipe with the given ID exists.
func (c *RecipeCatalog) Exists(ctx context.Context, recipeID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

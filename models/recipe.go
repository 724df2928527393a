package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe represents a published recipe. RatingAvg/RatingCount are aggregates
// recomputed from top-level comment ratings, never written by request handlers
// directly.
type Recipe struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;not null" json:"user_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	CoverURL     string         `gorm:"size:512" json:"cover_url"`
	Ingredients  string         `gorm:"type:text" json:"ingredients"` // JSON array of {name, amount}
	Steps        string         `gorm:"type:text" json:"steps"`       // JSON array of step texts
	RatingAvg    float64        `gorm:"default:0" json:"rating_avg"`
	RatingCount  int64          `gorm:"default:0" json:"rating_count"`
	CommentCount int64          `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	User         User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

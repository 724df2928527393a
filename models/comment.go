package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a recipe comment. A nil ParentID marks a top-level
// comment; only top-level comments contribute their Rating to recipe
// aggregates. Deletion is a soft delete: the row stays so existing replies
// keep a stable parent reference, but every read path filters it out.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RecipeID  uint           `gorm:"index;not null" json:"recipe_id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Rating    *int           `json:"rating,omitempty"`
	Images    []string       `gorm:"type:text;serializer:json" json:"images"`
	ParentID  *uint          `gorm:"index" json:"parent_id,omitempty"`
	Likes     int64          `gorm:"default:0" json:"likes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	User      User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

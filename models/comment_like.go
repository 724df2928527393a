package models

import "time"

// CommentLike is one row per (comment, user) pair. The composite unique index
// makes a duplicate like a no-op at the database level, so the likes counter
// on Comment can always be recomputed as the row count of this set.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"recipeshare/models"
)

// UserDirectory resolves author identities for comment views. Missing IDs are
// simply absent from the result map; the assembler substitutes a placeholder.
type UserDirectory struct {
	db *gorm.DB
}

// NewUserDirectory creates a UserDirectory.
func NewUserDirectory(db *gorm.DB) *UserDirectory {
	return &UserDirectory{db: db}
}

// FindByIDs loads the given users in one query and returns them keyed by ID.
func (d *UserDirectory) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	if len(ids) == 0 {
		return map[uint]models.User{}, nil
	}

	var users []models.User
	if err := d.db.WithContext(ctx).Find(&users, ids).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipeshare/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Recipe{}, &models.Comment{}, &models.CommentLike{},
	))
	return db
}

func seedComment(t *testing.T, db *gorm.DB, recipeID uint, content string) models.Comment {
	t.Helper()
	c := models.Comment{RecipeID: recipeID, UserID: 1, Content: content}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func TestAddLikeIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	c := seedComment(t, db, 1, "好评")

	liked, likes, err := repo.AddLike(ctx, c.ID, 7)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), likes)

	liked, likes, err = repo.AddLike(ctx, c.ID, 7)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(1), likes)

	liked, likes, err = repo.AddLike(ctx, c.ID, 8)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(2), likes)

	// Counter column tracks the set size
	var loaded models.Comment
	require.NoError(t, db.First(&loaded, c.ID).Error)
	assert.Equal(t, int64(2), loaded.Likes)
}

func TestRemoveLike(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	c := seedComment(t, db, 1, "好评")

	// Removing a like that was never added changes nothing
	removed, likes, err := repo.RemoveLike(ctx, c.ID, 7)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, int64(0), likes)

	_, _, err = repo.AddLike(ctx, c.ID, 7)
	require.NoError(t, err)

	removed, likes, err = repo.RemoveLike(ctx, c.ID, 7)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, int64(0), likes)

	var loaded models.Comment
	require.NoError(t, db.First(&loaded, c.ID).Error)
	assert.Equal(t, int64(0), loaded.Likes)
}

func TestFindByIDScope(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	c := seedComment(t, db, 1, "好评")

	got, err := repo.FindByID(ctx, 1, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, c.ID, got.ID)

	// Wrong recipe scope reads as absent, not as an error
	got, err = repo.FindByID(ctx, 2, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindByID(ctx, 1, 404)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMarkDeletedHidesComment(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	keep := seedComment(t, db, 1, "留着")
	drop := seedComment(t, db, 1, "删掉")

	require.NoError(t, repo.MarkDeleted(ctx, drop.ID))

	got, err := repo.FindByID(ctx, 1, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.FindAnyByID(ctx, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	comments, total, err := repo.FindPage(ctx, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, comments, 1)
	assert.Equal(t, keep.ID, comments[0].ID)

	// The row itself survives for replies that still point at it
	var raw int64
	require.NoError(t, db.Unscoped().Model(&models.Comment{}).Where("id = ?", drop.ID).Count(&raw).Error)
	assert.Equal(t, int64(1), raw)
}

func TestFindPageOrderingAndTotals(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	var ids []uint
	for i := 1; i <= 5; i++ {
		c := seedComment(t, db, 1, fmt.Sprintf("第%d条", i))
		ids = append(ids, c.ID)
	}
	seedComment(t, db, 2, "别的菜谱")

	comments, total, err := repo.FindPage(ctx, 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, comments, 3)
	assert.Equal(t, ids[4], comments[0].ID)
	assert.Equal(t, ids[3], comments[1].ID)
	assert.Equal(t, ids[2], comments[2].ID)

	comments, total, err = repo.FindPage(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, comments, 2)

	comments, total, err = repo.FindPage(ctx, 1, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, comments)
}

func TestImagesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{
		RecipeID: 1,
		UserID:   1,
		Content:  "带图评论",
		Images:   []string{"/static/uploads/a.jpg", "/static/uploads/b.jpg"},
	}
	require.NoError(t, repo.Insert(ctx, comment))

	got, err := repo.FindAnyByID(ctx, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, comment.Images, got.Images)
}

package services

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
	"recipeshare/repository"
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

func newTestService(t *testing.T) (*CommentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewUserDirectory(db),
		repository.NewRecipeCatalog(db),
		NewRecipeRatingService(db),
	)
	return svc, db
}

func createUser(t *testing.T, db *gorm.DB, username, nickname string) models.User {
	t.Helper()
	user := models.User{Username: username, Nickname: nickname}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createRecipe(t *testing.T, db *gorm.DB, userID uint, title string) models.Recipe {
	t.Helper()
	recipe := models.Recipe{UserID: userID, Title: title}
	require.NoError(t, db.Create(&recipe).Error)
	return recipe
}

func intPtr(v int) *int { return &v }

func TestCreateCommentValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "阿丽")
	recipe := createRecipe(t, db, author.ID, "番茄炒蛋")

	_, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "   "}, author)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "好吃", Rating: intPtr(6)}, author)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "好吃", Rating: intPtr(0)}, author)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateComment(ctx, 9999, CommentInput{Content: "好吃"}, author)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Mirrors the manual flow: create a rated review, reply to it, toggle a like
// twice each way, then delete the reply and confirm the parent survives.
func TestCommentLifecycle(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "阿丽")
	recipe := createRecipe(t, db, author.ID, "番茄炒蛋")

	comment, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "测试评论", Rating: intPtr(5)}, author)
	require.NoError(t, err)
	assert.Equal(t, int64(0), comment.Likes)
	assert.Nil(t, comment.ParentID)
	assert.Equal(t, "测试评论", comment.Content)
	assert.Equal(t, "阿丽", comment.User.Name)

	reply, err := svc.ReplyComment(ctx, recipe.ID, comment.ID, CommentInput{Content: "回复评论", Rating: intPtr(4)}, author)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, comment.ID, *reply.ParentID)

	ok, err := svc.LikeComment(ctx, comment.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Likes)

	// Liking twice must not double-count
	ok, err = svc.LikeComment(ctx, comment.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Likes)

	ok, err = svc.UnlikeComment(ctx, comment.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Likes)

	deleted, err := svc.DeleteComment(ctx, recipe.ID, reply.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := svc.GetCommentByID(ctx, recipe.ID, reply.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// The parent is untouched by the reply's deletion
	got, err = svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "测试评论", got.Content)
}

func TestLikesAlwaysMatchLikeSet(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	recipe := createRecipe(t, db, author.ID, "红烧肉")

	comment, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "不错"}, author)
	require.NoError(t, err)

	u1 := createUser(t, db, "bob", "")
	u2 := createUser(t, db, "carol", "")

	for _, uid := range []uint{u1.ID, u2.ID, u1.ID, u1.ID} {
		_, err := svc.LikeComment(ctx, comment.ID, uid)
		require.NoError(t, err)
	}

	var setSize int64
	require.NoError(t, db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&setSize).Error)
	assert.Equal(t, int64(2), setSize)

	got, err := svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, setSize, got.Likes)

	// Unliking someone who never liked is a successful no-op
	ok, err := svc.UnlikeComment(ctx, comment.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Likes)

	_, err = svc.UnlikeComment(ctx, comment.ID, u1.ID)
	require.NoError(t, err)
	_, err = svc.UnlikeComment(ctx, comment.ID, u2.ID)
	require.NoError(t, err)

	got, err = svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Likes)
}

func TestLikeMissingComment(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")

	_, err := svc.LikeComment(ctx, 404, author.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.UnlikeComment(ctx, 404, author.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPagination(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	recipe := createRecipe(t, db, author.ID, "凉拌黄瓜")

	for i := 1; i <= 5; i++ {
		_, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: fmt.Sprintf("第%d条", i)}, author)
		require.NoError(t, err)
	}

	views, total, err := svc.GetRecipeComments(ctx, recipe.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, views, 2)
	// Newest first
	assert.Equal(t, "第5条", views[0].Content)
	assert.Equal(t, "第4条", views[1].Content)

	views, total, err = svc.GetRecipeComments(ctx, recipe.ID, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, views, 1)

	// A page past the end is empty but keeps the true total
	views, total, err = svc.GetRecipeComments(ctx, recipe.ID, 9, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, views)

	_, _, err = svc.GetRecipeComments(ctx, recipe.ID, 0, 10)
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = svc.GetRecipeComments(ctx, recipe.ID, 1, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeletedCommentInvisible(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	recipe := createRecipe(t, db, author.ID, "清蒸鱼")

	first, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "留着"}, author)
	require.NoError(t, err)
	second, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "删掉"}, author)
	require.NoError(t, err)

	_, err = svc.DeleteComment(ctx, recipe.ID, second.ID, author.ID)
	require.NoError(t, err)

	gone, err := svc.GetCommentByID(ctx, recipe.ID, second.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	views, total, err := svc.GetRecipeComments(ctx, recipe.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, first.ID, views[0].ID)

	// Deleting again reads as never existed
	_, err = svc.DeleteComment(ctx, recipe.ID, second.ID, author.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteParentKeepsReplies(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	recipe := createRecipe(t, db, author.ID, "蛋炒饭")

	parent, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "父评论"}, author)
	require.NoError(t, err)
	reply, err := svc.ReplyComment(ctx, recipe.ID, parent.ID, CommentInput{Content: "子评论"}, author)
	require.NoError(t, err)

	_, err = svc.DeleteComment(ctx, recipe.ID, parent.ID, author.ID)
	require.NoError(t, err)

	got, err := svc.GetCommentByID(ctx, recipe.ID, reply.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)
}

func TestDeleteRequiresOwnership(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	stranger := createUser(t, db, "bob", "")
	recipe := createRecipe(t, db, author.ID, "地三鲜")

	comment, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "我的评论"}, author)
	require.NoError(t, err)

	_, err = svc.DeleteComment(ctx, recipe.ID, comment.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrPermission)

	// The comment is left unmodified
	got, err := svc.GetCommentByID(ctx, recipe.ID, comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "我的评论", got.Content)
}

func TestReplyParentScoping(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	recipe := createRecipe(t, db, author.ID, "麻婆豆腐")
	other := createRecipe(t, db, author.ID, "宫保鸡丁")

	_, err := svc.ReplyComment(ctx, recipe.ID, 404, CommentInput{Content: "回复"}, author)
	assert.ErrorIs(t, err, ErrNotFound)

	parent, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "父评论"}, author)
	require.NoError(t, err)

	// Parent belongs to a different recipe
	_, err = svc.ReplyComment(ctx, other.ID, parent.ID, CommentInput{Content: "回复"}, author)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleted parent cannot be replied to
	_, err = svc.DeleteComment(ctx, recipe.ID, parent.ID, author.ID)
	require.NoError(t, err)
	_, err = svc.ReplyComment(ctx, recipe.ID, parent.ID, CommentInput{Content: "回复"}, author)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCommentScopedByRecipe(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	recipe := createRecipe(t, db, author.ID, "酸辣汤")
	other := createRecipe(t, db, author.ID, "冬瓜汤")

	comment, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "好喝"}, author)
	require.NoError(t, err)

	got, err := svc.GetCommentByID(ctx, other.ID, comment.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecipeAggregatesFollowRatings(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "")
	recipe := createRecipe(t, db, author.ID, "水煮鱼")

	five, err := svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "五星", Rating: intPtr(5)}, author)
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, recipe.ID, CommentInput{Content: "三星", Rating: intPtr(3)}, author)
	require.NoError(t, err)
	// A rated reply is stored but never feeds the aggregate
	_, err = svc.ReplyComment(ctx, recipe.ID, five.ID, CommentInput{Content: "附和", Rating: intPtr(1)}, author)
	require.NoError(t, err)

	var loaded models.Recipe
	require.NoError(t, db.First(&loaded, recipe.ID).Error)
	assert.InDelta(t, 4.0, loaded.RatingAvg, 0.001)
	assert.Equal(t, int64(2), loaded.RatingCount)
	assert.Equal(t, int64(3), loaded.CommentCount)

	_, err = svc.DeleteComment(ctx, recipe.ID, five.ID, author.ID)
	require.NoError(t, err)

	require.NoError(t, db.First(&loaded, recipe.ID).Error)
	assert.InDelta(t, 3.0, loaded.RatingAvg, 0.001)
	assert.Equal(t, int64(1), loaded.RatingCount)
	assert.Equal(t, int64(2), loaded.CommentCount)
}

func TestListingSurvivesOrphanedAuthor(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	author := createUser(t, db, "alice", "阿丽")
	recipe := createRecipe(t, db, author.ID, "回锅肉")

	// A comment whose author record no longer resolves
	orphan := models.Comment{RecipeID: recipe.ID, UserID: 9999, Content: "幽灵评论"}
	require.NoError(t, db.Create(&orphan).Error)

	views, total, err := svc.GetRecipeComments(ctx, recipe.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, PlaceholderAuthorName, views[0].User.Name)
	assert.NotNil(t, views[0].Images)
}

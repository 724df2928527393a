package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recipeshare/models"
	"recipeshare/services"
	"recipeshare/utils"
)

const commentCacheTTL = 5 * time.Minute

// CommentController maps HTTP verbs onto the comment service operations.
// Everything domain-shaped lives in services; this layer only parses,
// authenticates, and translates errors to status codes.
type CommentController struct {
	db       *gorm.DB
	comments *services.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB, comments *services.CommentService) *CommentController {
	return &CommentController{db: db, comments: comments}
}

// ListComments returns one page of a recipe's comments, newest first.
func (c *CommentController) ListComments(ctx *gin.Context) {
	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	cacheKey := fmt.Sprintf("cache:recipe:%d:comments:page=%d:limit=%d", recipeID, page, limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	views, total, err := c.comments.GetRecipeComments(ctx.Request.Context(), recipeID, page, limit)
	if err != nil {
		respondCommentError(ctx, err)
		return
	}

	payload := gin.H{
		"items": views,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": int((total + int64(limit) - 1) / int64(limit)),
		},
	}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, commentCacheTTL)
	utils.Success(ctx, payload)
}

// CreateComment adds a top-level comment (optionally a rated review) to a recipe.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}

	var in services.CommentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	author, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	view, err := c.comments.CreateComment(ctx.Request.Context(), recipeID, in, author)
	if err != nil {
		respondCommentError(ctx, err)
		return
	}

	c.invalidateCommentCache(recipeID)
	utils.Success(ctx, gin.H{"comment": view})
}

// GetComment returns a single comment of a recipe, 404 when absent or deleted.
func (c *CommentController) GetComment(ctx *gin.Context) {
	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}
	commentID, ok := parseUintParam(ctx, "commentId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid comment id")
		return
	}

	view, err := c.comments.GetCommentByID(ctx.Request.Context(), recipeID, commentID)
	if err != nil {
		respondCommentError(ctx, err)
		return
	}
	if view == nil {
		utils.NotFound(ctx, 40440, "comment not found")
		return
	}
	utils.Success(ctx, gin.H{"comment": view})
}

// ReplyComment adds a reply under an existing comment of the same recipe.
func (c *CommentController) ReplyComment(ctx *gin.Context) {
	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}
	parentID, ok := parseUintParam(ctx, "commentId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid comment id")
		return
	}

	var in services.CommentInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}

	author, ok := c.currentUser(ctx)
	if !ok {
		return
	}

	view, err := c.comments.ReplyComment(ctx.Request.Context(), recipeID, parentID, in, author)
	if err != nil {
		respondCommentError(ctx, err)
		return
	}

	c.invalidateCommentCache(recipeID)
	utils.Success(ctx, gin.H{"comment": view})
}

// DeleteComment soft-deletes a comment; only its author may do so.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}
	commentID, ok := parseUintParam(ctx, "commentId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid comment id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if _, err := c.comments.DeleteComment(ctx.Request.Context(), recipeID, commentID, userID); err != nil {
		respondCommentError(ctx, err)
		return
	}

	c.invalidateCommentCache(recipeID)
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// LikeComment adds the caller to the comment's like set. Repeated calls succeed.
func (c *CommentController) LikeComment(ctx *gin.Context) {
	c.toggleLike(ctx, c.comments.LikeComment)
}

// UnlikeComment removes the caller from the like set. Succeeds even without a prior like.
func (c *CommentController) UnlikeComment(ctx *gin.Context) {
	c.toggleLike(ctx, c.comments.UnlikeComment)
}

func (c *CommentController) toggleLike(ctx *gin.Context, op func(ctx context.Context, commentID, userID uint) (bool, error)) {
	commentID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid comment id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	success, err := op(ctx.Request.Context(), commentID, userID)
	if err != nil {
		respondCommentError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"success": success})
}

// currentUser loads the authenticated user's full record, needed to
// denormalize nickname/avatar into the created comment view.
func (c *CommentController) currentUser(ctx *gin.Context) (models.User, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return models.User{}, false
	}

	var user models.User
	if err := c.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "account no longer exists")
		return models.User{}, false
	}
	return user, true
}

func (c *CommentController) invalidateCommentCache(recipeID uint) {
	utils.InvalidateByPrefix(fmt.Sprintf("cache:recipe:%d:comments:", recipeID))
	utils.InvalidateByPrefix(fmt.Sprintf("cache:recipe:detail:%d", recipeID))
}

// respondCommentError translates the service error taxonomy onto the JSON
// envelope. Anything outside the domain classes is a storage failure and
// answers 500 so callers know a retry is safe.
func respondCommentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40045, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(ctx, 40441, err.Error())
	case errors.Is(err, services.ErrPermission):
		utils.Forbidden(ctx, 40340, err.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorf("comment operation failed: %v", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "comment storage temporarily unavailable")
	}
}

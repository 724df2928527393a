package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recipeshare/models"
	"recipeshare/utils"
)

// RecipeController manages CRUD operations for recipes.
type RecipeController struct {
	db *gorm.DB
}

// NewRecipeController creates a new RecipeController instance.
func NewRecipeController(db *gorm.DB) *RecipeController {
	return &RecipeController{db: db}
}

// CreateRecipe allows authenticated users to publish new recipes.
func (r *RecipeController) CreateRecipe(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,min=1"`
		Description string `json:"description"`
		CoverURL    string `json:"cover_url"`
		Ingredients string `json:"ingredients"` // JSON array of {name, amount}
		Steps       string `json:"steps"`       // JSON array of step texts
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.SanitizePlain(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	recipe := models.Recipe{
		UserID:      userID,
		Title:       title,
		Description: utils.Sanitize(req.Description),
		CoverURL:    req.CoverURL,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	}

	if err := r.db.Create(&recipe).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create recipe")
		return
	}

	utils.InvalidateByPrefix("cache:recipes:list:")
	utils.Success(ctx, gin.H{"recipe": recipe})
}

// ListRecipes returns paginated recipes including author information.
func (r *RecipeController) ListRecipes(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))
	search := strings.TrimSpace(ctx.Query("search"))

	// Cache only searchless pages to avoid cache key explosion
	cacheKey := fmt.Sprintf("cache:recipes:list:page=%d:limit=%d", page, limit)
	if search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	var recipes []models.Recipe
	var total int64

	query := r.db.Preload("User").Order("created_at DESC")
	if search != "" {
		query = query.Where("title LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := query.Model(&models.Recipe{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count recipes")
		return
	}
	if err := query.Offset((page - 1) * limit).Limit(limit).Find(&recipes).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list recipes")
		return
	}

	payload := gin.H{
		"items": recipes,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": int((total + int64(limit) - 1) / int64(limit)),
		},
	}
	if search == "" {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	}
	utils.Success(ctx, payload)
}

// GetRecipe returns a single recipe with its author and aggregate rating.
func (r *RecipeController) GetRecipe(ctx *gin.Context) {
	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}

	cacheKey := fmt.Sprintf("cache:recipe:detail:%d", recipeID)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var recipe models.Recipe
	if err := r.db.Preload("User").First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx, 40401, "recipe not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to load recipe")
		return
	}

	payload := gin.H{"recipe": recipe}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// UpdateRecipe allows the author to update their recipe.
func (r *RecipeController) UpdateRecipe(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,min=1"`
		Description string `json:"description"`
		CoverURL    string `json:"cover_url"`
		Ingredients string `json:"ingredients"`
		Steps       string `json:"steps"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	title := utils.SanitizePlain(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40025, "title cannot be empty")
		return
	}

	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}

	var recipe models.Recipe
	if err := r.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx, 40403, "recipe not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to load recipe")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "unauthorized")
		return
	}
	if recipe.UserID != userID {
		utils.Forbidden(ctx, 40301, "you can only update your own recipes")
		return
	}

	recipe.Title = title
	recipe.Description = utils.Sanitize(req.Description)
	recipe.CoverURL = req.CoverURL
	recipe.Ingredients = req.Ingredients
	recipe.Steps = req.Steps
	if err := r.db.Save(&recipe).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update recipe")
		return
	}

	utils.InvalidateByPrefix("cache:recipes:list:")
	utils.InvalidateByPrefix(fmt.Sprintf("cache:recipe:detail:%d", recipeID))
	utils.Success(ctx, gin.H{"recipe": recipe})
}

// DeleteRecipe allows the author to delete their recipe.
func (r *RecipeController) DeleteRecipe(ctx *gin.Context) {
	recipeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid recipe id")
		return
	}

	var recipe models.Recipe
	if err := r.db.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(ctx, 40404, "recipe not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to load recipe")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	if recipe.UserID != userID {
		utils.Forbidden(ctx, 40302, "you can only delete your own recipes")
		return
	}

	if err := r.db.Delete(&recipe).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to delete recipe")
		return
	}

	utils.InvalidateByPrefix("cache:recipes:list:")
	utils.InvalidateByPrefix(fmt.Sprintf("cache:recipe:detail:%d", recipeID))
	utils.Success(ctx, gin.H{"message": "recipe deleted"})
}

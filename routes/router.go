package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"recipeshare/config"
	"recipeshare/controllers"
	"recipeshare/middleware"
	"recipeshare/repository"
	"recipeshare/services"
	"recipeshare/utils"
)

// SetupRouter wires routes, middlewares, services, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	tokens := utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	commentService := services.NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewUserDirectory(db),
		repository.NewRecipeCatalog(db),
		services.NewRecipeRatingService(db),
	)

	authController := controllers.NewAuthController(db, tokens)
	recipeController := controllers.NewRecipeController(db)
	commentController := controllers.NewCommentController(db, commentService)
	uploadController := controllers.NewUploadController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(tokens), authController.Logout)

	// Public reads
	api.GET("/recipes", recipeController.ListRecipes)
	api.GET("/recipes/:id", recipeController.GetRecipe)
	api.GET("/recipes/:id/comments", commentController.ListComments)
	api.GET("/recipes/:id/comments/:commentId", commentController.GetComment)
	api.GET("/users/:id", authController.GetUserPublic)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(tokens), middleware.RateLimitMiddleware())
	protected.GET("/users/profile", authController.GetProfile)
	protected.PATCH("/users/profile", authController.UpdateProfile)

	protected.POST("/upload", uploadController.UploadImage)

	protected.POST("/recipes", recipeController.CreateRecipe)
	protected.PUT("/recipes/:id", recipeController.UpdateRecipe)
	protected.DELETE("/recipes/:id", recipeController.DeleteRecipe)

	protected.POST("/recipes/:id/comments", commentController.CreateComment)
	protected.POST("/recipes/:id/comments/:commentId/replies", commentController.ReplyComment)
	protected.DELETE("/recipes/:id/comments/:commentId", commentController.DeleteComment)
	protected.POST("/comments/:id/like", commentController.LikeComment)
	protected.DELETE("/comments/:id/like", commentController.UnlikeComment)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}

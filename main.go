package main

import (
	"time"

	"recipeshare/config"
	"recipeshare/models"
	"recipeshare/routes"
	"recipeshare/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Recipe{},
		&models.Comment{},
		&models.CommentLike{},
		&models.UploadedFile{},
	)

	r := routes.SetupRouter(db)

	// Background cleanup for expired uploaded images (best-effort)
	utils.StartUploadCleaner(5 * time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

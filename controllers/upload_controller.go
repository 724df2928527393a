package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipeshare/config"
	"recipeshare/models"
	"recipeshare/utils"
)

// Only recipe and comment photos are accepted, so the cap stays small.
const maxUploadSize = 10 * 1024 * 1024

// UploadController stores recipe/comment images under static/uploads and
// records them for timed cleanup.
type UploadController struct {
	db *gorm.DB
}

// NewUploadController creates an UploadController.
func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{db: db}
}

// UploadImage handles image uploads for recipes and comments. The returned
// URL is the opaque image reference comments carry in their images list.
func (u *UploadController) UploadImage(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40113, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, "file size exceeds 10MB")
		return
	}

	now := time.Now()
	baseDir := filepath.Join(".", "static", "uploads", now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	ext := filepath.Ext(filepath.Base(header.Filename))
	safeName := fmt.Sprintf("%d_%s%s", userID, uuid.NewString(), ext)
	dstPath := filepath.Join(baseDir, safeName)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxUploadSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil || written > maxUploadSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40032, "failed to store file within size limit")
		return
	}

	relURL := fmt.Sprintf("/static/uploads/%s/%s", now.Format("2006/01/02"), safeName)

	cfg := config.Get()
	ttlMinutes := cfg.UploadsSelfDestructMinutes
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	absPath, _ := filepath.Abs(dstPath)
	record := models.UploadedFile{
		FilePath: absPath,
		URL:      relURL,
		ExpireAt: now.Add(time.Duration(ttlMinutes) * time.Minute),
	}
	// Best-effort bookkeeping; the upload succeeds even if the record fails
	if err := u.db.Create(&record).Error; err != nil && utils.Sugar != nil {
		utils.Sugar.Warnf("record uploaded file failed: %v", err)
	}

	utils.Success(ctx, gin.H{"url": relURL})
}

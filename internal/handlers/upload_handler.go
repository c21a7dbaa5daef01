package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadProductImage is the handler for POST /products/image (admin only).
// It saves the file under the upload directory with a unique name and returns
// the public URL, which the admin then submits as a product imageUrl.
func (h *Handlers) UploadProductImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}

	if file.Size > h.Cfg.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File type not allowed"})
		return
	}

	if _, err := os.Stat(h.Cfg.UploadPath); os.IsNotExist(err) {
		if err := os.MkdirAll(h.Cfg.UploadPath, 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
	}

	// Unique filename so uploads never clobber each other.
	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	savePath := filepath.Join(h.Cfg.UploadPath, newFilename)

	if err := c.SaveUploadedFile(file, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url": fmt.Sprintf("%s/uploads/%s", h.Cfg.BaseURL, newFilename),
	})
}

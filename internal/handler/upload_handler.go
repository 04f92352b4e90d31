package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assochub/internal/pkg"
)

type UploadHandler struct {
	store *pkg.DiskStore
}

func NewUploadHandler(store *pkg.DiskStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// Upload accepts one multipart file and returns its retrievable URI.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		abortWithError(c, pkg.Wrap(pkg.ErrUpload, "could not read upload"))
		return
	}
	defer src.Close()

	url, err := h.store.Save(file.Filename, src)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}

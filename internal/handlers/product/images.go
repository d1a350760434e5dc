package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/storage"
)

const maxImageSize = 5 << 20

// UploadImage stores the multipart "image" file and points the product at it.
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		handlers.BadRequest(c, "image file is required")
		return
	}
	if file.Size > maxImageSize {
		handlers.BadRequest(c, "image must be 5 MB or smaller")
		return
	}
	if storage.ImageContentType(file.Filename) == "" {
		handlers.BadRequest(c, "image must be a jpg, png, webp or gif file")
		return
	}

	f, err := file.Open()
	if err != nil {
		handlers.BadRequest(c, "unreadable image file")
		return
	}
	defer f.Close()

	url, err := h.catalog.SetProductImage(c.Request.Context(), id, file.Filename, f, file.Size)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "image": url})
}

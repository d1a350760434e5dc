package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/handlers"
)

func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.catalog.ListBrands(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}
	b, err := h.catalog.CreateBrand(c.Request.Context(), input.Name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"brand_id": b.ID, "message": "Brand added successfully"})
}

func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}
	b, err := h.catalog.UpdateBrand(c.Request.Context(), id, input.Name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteBrand(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brand deleted successfully"})
}

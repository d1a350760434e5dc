package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/handlers"
)

type nameInput struct {
	Name string `json:"name"`
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}
	cat, err := h.catalog.CreateCategory(c.Request.Context(), input.Name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category_id": cat.ID, "message": "Category added successfully"})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	var input nameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}
	cat, err := h.catalog.UpdateCategory(c.Request.Context(), id, input.Name)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

// DeleteCategory keeps the category's products; their category becomes null.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := handlers.ParseID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/service"
)

type DashboardHandler struct {
	admin *service.AdminService
}

func NewDashboardHandler(admin *service.AdminService) *DashboardHandler {
	return &DashboardHandler{admin: admin}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) LowStock(c *gin.Context) {
	products, err := h.admin.LowStock(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

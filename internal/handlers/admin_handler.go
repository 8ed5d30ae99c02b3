package handlers

import (
	"net/http"

	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves the admin dashboard
type AdminHandler struct {
	admin *services.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *services.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// RegisterAdminRoutes registers admin routes; g must already be restricted to admins
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/stats", h.GetStats)
}

// GetStats returns platform totals
func (h *AdminHandler) GetStats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, stats)
}

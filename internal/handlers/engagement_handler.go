package handlers

import (
	"net/http"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// EngagementHandler handles like, save and share toggles on content
type EngagementHandler struct {
	engagement *services.EngagementService
}

// NewEngagementHandler creates a new EngagementHandler
func NewEngagementHandler(engagement *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagement: engagement}
}

// RegisterEngagementRoutes registers the toggle routes. Each POST flips the
// current user's membership; a second POST undoes the first.
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/content/:kind/:id/like", h.toggle(models.ActionLike))
	g.POST("/content/:kind/:id/save", h.toggle(models.ActionSave))
	g.POST("/content/:kind/:id/share", h.toggle(models.ActionShare))
}

func (h *EngagementHandler) toggle(action models.EngagementAction) echo.HandlerFunc {
	return func(c echo.Context) error {
		kind, err := kindParam(c)
		if err != nil {
			return err
		}
		res, err := h.engagement.Toggle(c.Request().Context(), getUserIDFromContext(c), kind, c.Param("id"), action)
		if err != nil {
			return httpError(err)
		}
		return success(c, http.StatusOK, res.Response())
	}
}

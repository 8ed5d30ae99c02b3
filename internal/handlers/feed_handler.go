package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler handles the following feed, saved items and trending lists
type FeedHandler struct {
	content  *services.ContentService
	trending *services.TrendingService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(content *services.ContentService, trending *services.TrendingService) *FeedHandler {
	return &FeedHandler{content: content, trending: trending}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/saved", h.GetSaved)
	g.GET("/trending", h.GetTrending)
}

// optionalKind reads ?kind=, where an empty value means every kind
func optionalKind(c echo.Context) (models.ContentKind, error) {
	raw := c.QueryParam("kind")
	if raw == "" {
		return "", nil
	}
	kind, err := models.ParseContentKind(raw)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Unknown content type")
	}
	return kind, nil
}

// GetFeed returns published items from followed users, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	page, limit := pageParams(c)
	items, err := h.content.Feed(c.Request().Context(), getUserIDFromContext(c), page, limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"items": items, "page": max(page, 1)})
}

// GetSaved returns the items the current user has saved
func (h *FeedHandler) GetSaved(c echo.Context) error {
	kind, err := optionalKind(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	items, err := h.content.Saved(c.Request().Context(), getUserIDFromContext(c), kind, page, limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"items": items, "page": max(page, 1)})
}

// GetTrending returns the top items by likes plus shares within ?window= hours
func (h *FeedHandler) GetTrending(c echo.Context) error {
	kind, err := optionalKind(c)
	if err != nil {
		return err
	}
	window, _ := strconv.Atoi(c.QueryParam("window"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.trending.Trending(c.Request().Context(), kind, window, limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"items": entries, "count": len(entries)})
}

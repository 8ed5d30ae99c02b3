package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ContentHandler handles HTTP requests for every content variant. The variant is
// taken from the :kind path segment (posts, news, videos, community-posts).
type ContentHandler struct {
	content *services.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(content *services.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// RegisterContentRoutes registers content routes
func (h *ContentHandler) RegisterContentRoutes(g *echo.Group) {
	g.POST("/content/:kind", h.CreateContent)
	g.GET("/content/:kind", h.ListContent)
	g.GET("/content/:kind/:id", h.GetContent)
	g.PUT("/content/:kind/:id", h.UpdateContent)
	g.DELETE("/content/:kind/:id", h.DeleteContent)
}

// CreateContent publishes a new item
func (h *ContentHandler) CreateContent(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req models.CreateContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.content.Create(c.Request().Context(), getUserIDFromContext(c), kind, req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, view)
}

// GetContent retrieves one item and counts the view
func (h *ContentHandler) GetContent(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	view, err := h.content.Get(c.Request().Context(), kind, c.Param("id"), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, view)
}

// ListContent pages through items, optionally filtered by ?author_id= and ?tag=
func (h *ContentHandler) ListContent(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	opts := services.ListOptions{Tag: c.QueryParam("tag"), Page: page, Limit: limit}
	if raw := c.QueryParam("author_id"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid author ID")
		}
		opts.AuthorID = uint(authorID)
	}

	res, err := h.content.List(c.Request().Context(), kind, opts, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"items": res.Items},
		"meta":    paginationMeta(res.Page, res.Limit, res.Total),
	})
}

// UpdateContent edits an item owned by the current user
func (h *ContentHandler) UpdateContent(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req models.UpdateContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.content.Update(c.Request().Context(), getUserIDFromContext(c), kind, c.Param("id"), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, view)
}

// DeleteContent removes an item and its comments
func (h *ContentHandler) DeleteContent(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	err = h.content.Delete(c.Request().Context(), getUserIDFromContext(c), getRoleFromContext(c), kind, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

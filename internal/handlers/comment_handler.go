package handlers

import (
	"net/http"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/content/:kind/:id/comments", h.CreateComment)
	g.GET("/content/:kind/:id/comments", h.GetComments)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
}

// CreateComment appends a comment, or a reply when parent_comment_id is set
func (h *CommentHandler) CreateComment(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.Append(c.Request().Context(), getUserIDFromContext(c), kind, c.Param("id"), req.Content, req.ParentCommentID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusCreated, comment)
}

// GetComments returns the whole thread of an item in append order
func (h *CommentHandler) GetComments(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.List(c.Request().Context(), kind, c.Param("id"), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"comments": comments, "count": len(comments)})
}

// UpdateComment edits the text of the current user's comment
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	id, err := uintParam(c, "id", "comment ID")
	if err != nil {
		return err
	}
	var req models.UpdateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.Update(c.Request().Context(), getUserIDFromContext(c), id, req.Content)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, comment)
}

// DeleteComment removes a comment; authors and moderators may delete
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := uintParam(c, "id", "comment ID")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), getUserIDFromContext(c), getRoleFromContext(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleCommentLike likes or unlikes a comment
func (h *CommentHandler) ToggleCommentLike(c echo.Context) error {
	id, err := uintParam(c, "id", "comment ID")
	if err != nil {
		return err
	}
	res, err := h.comments.ToggleLike(c.Request().Context(), getUserIDFromContext(c), id)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, res.Response())
}

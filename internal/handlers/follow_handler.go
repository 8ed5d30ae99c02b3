package handlers

import (
	"net/http"

	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// ToggleFollow follows or unfollows a user
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	targetID, err := uintParam(c, "id", "user ID")
	if err != nil {
		return err
	}
	res, err := h.follows.Toggle(c.Request().Context(), getUserIDFromContext(c), targetID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, res)
}

// GetFollowers returns the users following a user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := uintParam(c, "id", "user ID")
	if err != nil {
		return err
	}
	users, err := h.follows.Followers(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"users": users, "count": len(users)})
}

// GetFollowing returns the users a user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := uintParam(c, "id", "user ID")
	if err != nil {
		return err
	}
	users, err := h.follows.Following(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"users": users, "count": len(users)})
}

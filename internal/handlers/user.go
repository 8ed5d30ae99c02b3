package handlers

import (
	"net/http"
	"strconv"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)
	g.PUT("/profile", h.UpdateProfile)
	g.DELETE("/profile", h.DeleteUser)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}

// GetUser returns another user's profile with follow counts
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := uintParam(c, "id", "user ID")
	if err != nil {
		return err
	}
	profile, err := h.users.Profile(c.Request().Context(), id, getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, profile)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	profile, err := h.users.Profile(c.Request().Context(), currentUserID, currentUserID)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, profile)
}

// UpdateProfile updates the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.Request().Context(), getUserIDFromContext(c), req)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, user)
}

// DeleteUser deletes the authenticated user's account
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchUsers searches for users by username or email
func (h *UserHandler) SearchUsers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	users, err := h.users.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"users": users})
}

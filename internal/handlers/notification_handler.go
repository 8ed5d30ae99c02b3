package handlers

import (
	"net/http"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	dispatcher *services.Dispatcher
	users      repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(dispatcher *services.Dispatcher, users repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher, users: users}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
}

// EnrichedNotification includes actor info
type EnrichedNotification struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

func (h *NotificationHandler) enrichNotifications(c echo.Context, notifications []models.Notification) ([]EnrichedNotification, error) {
	ids := make([]uint, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ActorID)
	}
	actors, err := h.users.GetUsersByIDs(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedNotification, len(notifications))
	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n, Actor: models.UserCompact{ID: n.ActorID}}
		if actor, ok := actors[n.ActorID]; ok {
			enriched[i].Actor = actor.ToCompact()
		}
	}
	return enriched, nil
}

// GetNotifications returns paginated notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	page, limit := pageParams(c)
	res, err := h.dispatcher.List(c.Request().Context(), getUserIDFromContext(c), page, limit)
	if err != nil {
		return httpError(err)
	}
	enriched, err := h.enrichNotifications(c, res.Notifications)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"notifications": enriched,
		},
		"meta": paginationMeta(res.Page, res.Limit, res.Total),
	})
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.dispatcher.UnreadCount(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the current user's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := uintParam(c, "id", "notification ID")
	if err != nil {
		return err
	}
	if err := h.dispatcher.MarkRead(c.Request().Context(), id, getUserIDFromContext(c)); err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"success": true})
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	updated, err := h.dispatcher.MarkAllRead(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return success(c, http.StatusOK, echo.Map{"success": true, "updated": updated})
}

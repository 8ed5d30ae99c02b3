package services

import (
	"context"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
)

// DashboardStats are the totals shown on the admin dashboard
type DashboardStats struct {
	Users               int64                        `json:"users"`
	Content             map[models.ContentKind]int64 `json:"content"`
	Comments            int64                        `json:"comments"`
	Notifications       int64                        `json:"notifications"`
	UnreadNotifications int64                        `json:"unreadNotifications"`
}

// AdminService aggregates platform statistics
type AdminService struct {
	users         repositories.UserRepository
	content       repositories.ContentRepository
	comments      repositories.CommentRepository
	notifications repositories.NotificationRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(users repositories.UserRepository, content repositories.ContentRepository, comments repositories.CommentRepository, notifications repositories.NotificationRepository) *AdminService {
	return &AdminService{users: users, content: content, comments: comments, notifications: notifications}
}

// Stats collects the dashboard totals
func (s *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{Content: make(map[models.ContentKind]int64, len(models.ContentKinds))}
	var err error

	if stats.Users, err = s.users.CountUsers(ctx); err != nil {
		return nil, err
	}
	for _, kind := range models.ContentKinds {
		n, err := s.content.CountContent(ctx, kind)
		if err != nil {
			return nil, err
		}
		stats.Content[kind] = n
	}
	if stats.Comments, err = s.comments.CountComments(ctx); err != nil {
		return nil, err
	}
	if stats.Notifications, err = s.notifications.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.UnreadNotifications, err = s.notifications.CountAllUnread(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

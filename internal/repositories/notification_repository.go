package repositories

import (
	"context"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAsRead(ctx context.Context, notificationID, recipientID uint) error
	MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountAllUnread(ctx context.Context) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by gorm
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// CreateNotification inserts a notification
func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetByRecipientID pages through a user's notifications, newest first
func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// GetUnreadCount counts a recipient's unread notifications
func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flags one notification as read. Notifications owned by another user are reported as not found.
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID, recipientID uint) error {
	var n models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&n).Error
	if err != nil {
		return notFound(err, "notification not found")
	}
	if n.IsRead {
		return nil
	}
	return r.db.WithContext(ctx).Model(&n).Update("is_read", true).Error
}

// MarkAllAsRead flags every unread notification of a recipient as read
func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountAll returns the total number of notifications
func (r *postgresNotificationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).Count(&count).Error
	return count, err
}

// CountAllUnread returns the number of unread notifications across users
func (r *postgresNotificationRepository) CountAllUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

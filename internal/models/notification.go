package models

import "time"

// NotificationType enumerates the transitions that notify a user
type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationUpload  NotificationType = "upload"
	NotificationShare   NotificationType = "share"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Type        NotificationType `json:"type" gorm:"size:20;index"`
	ActorID     uint             `json:"actor_id" gorm:"index"`
	RecipientID uint             `json:"recipient_id" gorm:"index"`
	TargetID    string           `json:"target_id"`                  // content or comment id
	TargetType  string           `json:"target_type" gorm:"size:20"` // post, news, video, community_post, comment, user
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

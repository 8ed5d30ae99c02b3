package services

import (
	"context"
	"fmt"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/fanout"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"go.uber.org/zap"
)

// Event describes a state transition that notifies somebody
type Event struct {
	Type        models.NotificationType
	ActorID     uint
	RecipientID uint
	TargetID    string
	TargetType  string
	Message     string
}

// Notifier is the side of the Dispatcher that other services trigger
type Notifier interface {
	Notify(ctx context.Context, ev Event) *models.Notification
	FanOut(ctx context.Context, ev Event, recipients []uint) int
}

// Dispatcher persists notifications. Direct notifications are written inline;
// fan-out notifications go through a fanout.Queue and are written by HandleTask.
type Dispatcher struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	queue         fanout.Queue
	log           *zap.Logger
	metrics       *telemetry.Metrics
}

// NewDispatcher creates a Dispatcher. The queue's consumer must be given HandleTask.
func NewDispatcher(notifications repositories.NotificationRepository, users repositories.UserRepository, queue fanout.Queue, log *zap.Logger, metrics *telemetry.Metrics) *Dispatcher {
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		queue:         queue,
		log:           log.Named("dispatcher"),
		metrics:       metrics,
	}
}

// Notify persists one notification for ev.RecipientID. It returns nil without
// writing anything when the actor is the recipient. Persistence failures are
// logged and counted but never returned: the triggering action has already succeeded.
func (d *Dispatcher) Notify(ctx context.Context, ev Event) *models.Notification {
	if ev.RecipientID == 0 || ev.ActorID == ev.RecipientID {
		return nil
	}
	if ev.Message == "" {
		ev.Message = d.message(ctx, ev)
	}

	n := notificationFor(ev)
	if err := d.notifications.CreateNotification(ctx, n); err != nil {
		d.metrics.NotificationsDropped.WithLabelValues(string(ev.Type)).Inc()
		d.log.Error("failed to persist notification",
			zap.String("type", string(ev.Type)),
			zap.Uint("actor_id", ev.ActorID),
			zap.Uint("recipient_id", ev.RecipientID),
			zap.Error(err),
		)
		return nil
	}
	d.metrics.NotificationsCreated.WithLabelValues(string(ev.Type)).Inc()
	return n
}

// FanOut enqueues one independent task per recipient and returns how many were
// accepted. The actor is never among the recipients.
func (d *Dispatcher) FanOut(ctx context.Context, ev Event, recipients []uint) int {
	if ev.Message == "" {
		ev.Message = d.message(ctx, ev)
	}

	enqueued := 0
	for _, recipient := range recipients {
		if recipient == 0 || recipient == ev.ActorID {
			continue
		}
		task := fanout.NewTask(fanout.Task{
			Type:        ev.Type,
			ActorID:     ev.ActorID,
			RecipientID: recipient,
			TargetID:    ev.TargetID,
			TargetType:  ev.TargetType,
			Message:     ev.Message,
		})
		if err := d.queue.Enqueue(ctx, task); err != nil {
			d.metrics.NotificationsDropped.WithLabelValues(string(ev.Type)).Inc()
			d.log.Error("failed to enqueue fanout task",
				zap.String("type", string(ev.Type)),
				zap.Uint("recipient_id", recipient),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	d.log.Debug("fanout enqueued",
		zap.String("type", string(ev.Type)),
		zap.Uint("actor_id", ev.ActorID),
		zap.Int("recipients", len(recipients)),
		zap.Int("enqueued", enqueued),
	)
	return enqueued
}

// HandleTask persists the notification carried by a fan-out task. Errors are
// returned so the queue can retry.
func (d *Dispatcher) HandleTask(ctx context.Context, task fanout.Task) error {
	n := notificationFor(Event{
		Type:        task.Type,
		ActorID:     task.ActorID,
		RecipientID: task.RecipientID,
		TargetID:    task.TargetID,
		TargetType:  task.TargetType,
		Message:     task.Message,
	})
	if err := d.notifications.CreateNotification(ctx, n); err != nil {
		return fmt.Errorf("persist %s notification for user %d: %w", task.Type, task.RecipientID, err)
	}
	d.metrics.NotificationsCreated.WithLabelValues(string(task.Type)).Inc()
	return nil
}

func notificationFor(ev Event) *models.Notification {
	return &models.Notification{
		Type:        ev.Type,
		ActorID:     ev.ActorID,
		RecipientID: ev.RecipientID,
		TargetID:    ev.TargetID,
		TargetType:  ev.TargetType,
		Message:     ev.Message,
	}
}

// message renders the default text for ev from the actor's username
func (d *Dispatcher) message(ctx context.Context, ev Event) string {
	actor := "Someone"
	if u, err := d.users.GetUserByID(ctx, ev.ActorID); err == nil {
		actor = u.Username
	}
	target := targetLabel(ev.TargetType)

	switch ev.Type {
	case models.NotificationLike:
		return fmt.Sprintf("%s liked your %s", actor, target)
	case models.NotificationComment:
		return fmt.Sprintf("%s commented on your %s", actor, target)
	case models.NotificationFollow:
		return fmt.Sprintf("%s started following you", actor)
	case models.NotificationShare:
		return fmt.Sprintf("%s shared your %s", actor, target)
	case models.NotificationUpload:
		return fmt.Sprintf("%s published a new %s", actor, target)
	default:
		return fmt.Sprintf("%s interacted with your %s", actor, target)
	}
}

func targetLabel(targetType string) string {
	if kind, err := models.ParseContentKind(targetType); err == nil {
		return kind.Label()
	}
	if targetType == "" {
		return "content"
	}
	return targetType
}

// NotificationPage is one page of a user's notifications
type NotificationPage struct {
	Notifications []models.Notification
	Total         int64
	Page          int
	Limit         int
}

// List returns the user's notifications, newest first
func (d *Dispatcher) List(ctx context.Context, userID uint, page, limit int) (*NotificationPage, error) {
	if userID == 0 {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	page, limit = normalizePage(page, limit, 20, 50)
	items, total, err := d.notifications.GetByRecipientID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{Notifications: items, Total: total, Page: page, Limit: limit}, nil
}

// UnreadCount returns how many of the user's notifications are unread
func (d *Dispatcher) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, apperrors.Unauthorized("User not authenticated")
	}
	return d.notifications.GetUnreadCount(ctx, userID)
}

// MarkRead flags a notification as read; only its recipient may do so
func (d *Dispatcher) MarkRead(ctx context.Context, notificationID, userID uint) error {
	if userID == 0 {
		return apperrors.Unauthorized("User not authenticated")
	}
	return d.notifications.MarkAsRead(ctx, notificationID, userID)
}

// MarkAllRead flags every notification of the user as read and returns how many changed
func (d *Dispatcher) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, apperrors.Unauthorized("User not authenticated")
	}
	return d.notifications.MarkAllAsRead(ctx, userID)
}

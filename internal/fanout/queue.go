// Package fanout delivers notification tasks off the request path.
package fanout

import (
	"context"
	"errors"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/google/uuid"
)

// ErrQueueClosed is returned by Enqueue once the queue is shutting down
var ErrQueueClosed = errors.New("fanout: queue closed")

// Task asks for one notification to be persisted for one recipient
type Task struct {
	ID          string                  `json:"id"`
	Type        models.NotificationType `json:"type"`
	ActorID     uint                    `json:"actor_id"`
	RecipientID uint                    `json:"recipient_id"`
	TargetID    string                  `json:"target_id"`
	TargetType  string                  `json:"target_type"`
	Message     string                  `json:"message"`
	Attempt     int                     `json:"attempt"`
}

// NewTask stamps a task with a fresh id
func NewTask(t Task) Task {
	t.ID = uuid.NewString()
	t.Attempt = 0
	return t
}

// Handler processes one task. A returned error makes the task eligible for retry.
type Handler func(ctx context.Context, task Task) error

// Queue accepts fan-out tasks for asynchronous delivery
type Queue interface {
	Enqueue(ctx context.Context, task Task) error
	Close(ctx context.Context) error
}

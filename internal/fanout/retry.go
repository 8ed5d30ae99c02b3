package fanout

import (
	"context"
	"time"

	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"go.uber.org/zap"
)

// RetryPolicy bounds delivery attempts of a single task
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// deliver runs h until it succeeds or the policy is exhausted, sleeping
// Backoff*attempt between tries. It gives up early when ctx is done.
func deliver(ctx context.Context, h Handler, task Task, policy RetryPolicy, log *zap.Logger, metrics *telemetry.Metrics) error {
	var err error
	for attempt := 0; attempt < policy.attempts(); attempt++ {
		task.Attempt = attempt + 1
		if err = h(ctx, task); err == nil {
			metrics.FanoutTasks.WithLabelValues("delivered").Inc()
			return nil
		}
		if attempt+1 == policy.attempts() {
			break
		}

		metrics.FanoutTasks.WithLabelValues("retried").Inc()
		log.Warn("fanout task failed, retrying",
			zap.String("task_id", task.ID),
			zap.Int("attempt", task.Attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			metrics.FanoutTasks.WithLabelValues("failed").Inc()
			return ctx.Err()
		case <-time.After(policy.Backoff * time.Duration(attempt+1)):
		}
	}

	metrics.FanoutTasks.WithLabelValues("failed").Inc()
	log.Error("fanout task dropped",
		zap.String("task_id", task.ID),
		zap.String("type", string(task.Type)),
		zap.Uint("recipient_id", task.RecipientID),
		zap.Int("attempts", task.Attempt),
		zap.Error(err),
	)
	return err
}

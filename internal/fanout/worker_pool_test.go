package fanout

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPool(workers, size, attempts int) (*WorkerPool, *telemetry.Metrics) {
	metrics := telemetry.NewNopMetrics()
	pool := NewWorkerPool(PoolConfig{
		Workers:   workers,
		QueueSize: size,
		Retry:     RetryPolicy{MaxAttempts: attempts, Backoff: time.Millisecond},
	}, zap.NewNop(), metrics)
	return pool, metrics
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestWorkerPoolDeliversEveryTask(t *testing.T) {
	pool, metrics := newPool(4, 16, 1)

	var mu sync.Mutex
	seen := map[uint]int{}
	pool.Start(func(ctx context.Context, task Task) error {
		mu.Lock()
		seen[task.RecipientID]++
		mu.Unlock()
		return nil
	})

	for i := uint(1); i <= 100; i++ {
		task := NewTask(Task{Type: models.NotificationUpload, ActorID: 1000, RecipientID: i})
		require.NoError(t, pool.Enqueue(context.Background(), task))
	}
	require.NoError(t, pool.Close(context.Background()))

	assert.Len(t, seen, 100)
	for id, n := range seen {
		assert.Equal(t, 1, n, "recipient %d", id)
	}
	assert.Equal(t, float64(100), counterValue(t, metrics.FanoutTasks.WithLabelValues("delivered")))
}

func TestWorkerPoolRetriesUntilSuccess(t *testing.T) {
	pool, metrics := newPool(1, 1, 3)

	var calls atomic.Int32
	var lastAttempt atomic.Int32
	pool.Start(func(ctx context.Context, task Task) error {
		lastAttempt.Store(int32(task.Attempt))
		if calls.Add(1) < 3 {
			return errors.New("database unavailable")
		}
		return nil
	})

	require.NoError(t, pool.Enqueue(context.Background(), NewTask(Task{RecipientID: 1})))
	require.NoError(t, pool.Close(context.Background()))

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(3), lastAttempt.Load())
	assert.Equal(t, float64(2), counterValue(t, metrics.FanoutTasks.WithLabelValues("retried")))
	assert.Equal(t, float64(1), counterValue(t, metrics.FanoutTasks.WithLabelValues("delivered")))
}

func TestWorkerPoolDropsAfterMaxAttempts(t *testing.T) {
	pool, metrics := newPool(1, 1, 2)

	var calls atomic.Int32
	pool.Start(func(ctx context.Context, task Task) error {
		calls.Add(1)
		return errors.New("always failing")
	})

	require.NoError(t, pool.Enqueue(context.Background(), NewTask(Task{RecipientID: 1})))
	require.NoError(t, pool.Close(context.Background()))

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, float64(1), counterValue(t, metrics.FanoutTasks.WithLabelValues("failed")))
}

func TestWorkerPoolRejectsAfterClose(t *testing.T) {
	pool, _ := newPool(1, 1, 1)
	pool.Start(func(ctx context.Context, task Task) error { return nil })
	require.NoError(t, pool.Close(context.Background()))
	require.NoError(t, pool.Close(context.Background()))

	err := pool.Enqueue(context.Background(), NewTask(Task{RecipientID: 1}))
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestWorkerPoolEnqueueHonoursContextWhenFull(t *testing.T) {
	pool, _ := newPool(1, 1, 1)
	// not started: the single slot fills and the next Enqueue must wait
	require.NoError(t, pool.Enqueue(context.Background(), NewTask(Task{RecipientID: 1})))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := pool.Enqueue(ctx, NewTask(Task{RecipientID: 2}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewTaskAssignsUniqueIDs(t *testing.T) {
	a := NewTask(Task{RecipientID: 1, Attempt: 5})
	b := NewTask(Task{RecipientID: 1})
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Zero(t, a.Attempt)
}

func TestWorkerPoolCloseReleasesBlockedEnqueue(t *testing.T) {
	pool, _ := newPool(1, 1, 1)
	// not started: the slot fills and the second Enqueue waits with no deadline
	require.NoError(t, pool.Enqueue(context.Background(), NewTask(Task{RecipientID: 1})))

	blocked := make(chan error, 1)
	go func() {
		blocked <- pool.Enqueue(context.Background(), NewTask(Task{RecipientID: 2}))
	}()
	time.Sleep(20 * time.Millisecond)

	closed := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		closed <- pool.Close(ctx)
	}()

	select {
	case err := <-blocked:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue still blocked after Close")
	}
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}

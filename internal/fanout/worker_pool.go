package fanout

import (
	"context"
	"sync"

	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"go.uber.org/zap"
)

// PoolConfig sizes the in-process worker pool
type PoolConfig struct {
	Workers   int
	QueueSize int
	Retry     RetryPolicy
}

// WorkerPool is a bounded in-process Queue. Enqueue blocks while the buffer is full.
type WorkerPool struct {
	cfg     PoolConfig
	tasks   chan Task
	log     *zap.Logger
	metrics *telemetry.Metrics

	mu      sync.RWMutex
	closed  bool
	started bool

	// stop is closed by Close to release Enqueue calls waiting on a full buffer.
	// tasks is only closed once every such sender has returned.
	stop    chan struct{}
	senders sync.WaitGroup

	// ctx is cancelled only when Close gives up waiting, aborting retry sleeps
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkerPool creates a pool; no task is processed until Start is called
func NewWorkerPool(cfg PoolConfig, log *zap.Logger, metrics *telemetry.Metrics) *WorkerPool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		cfg:     cfg,
		tasks:   make(chan Task, cfg.QueueSize),
		stop:    make(chan struct{}),
		log:     log.Named("fanout"),
		metrics: metrics,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (p *WorkerPool) Start(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.work(h)
	}
	p.log.Info("fanout worker pool started",
		zap.Int("workers", p.cfg.Workers),
		zap.Int("queue_size", p.cfg.QueueSize),
	)
}

func (p *WorkerPool) work(h Handler) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.metrics.FanoutQueueDepth.Set(float64(len(p.tasks)))
		_ = deliver(p.ctx, h, task, p.cfg.Retry, p.log, p.metrics)
	}
}

// Enqueue buffers a task, waiting for room when the buffer is full.
// A wait still in progress when Close is called ends with ErrQueueClosed.
func (p *WorkerPool) Enqueue(ctx context.Context, task Task) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrQueueClosed
	}
	p.senders.Add(1)
	p.mu.RUnlock()
	defer p.senders.Done()

	select {
	case p.tasks <- task:
		p.metrics.FanoutTasks.WithLabelValues("enqueued").Inc()
		p.metrics.FanoutQueueDepth.Set(float64(len(p.tasks)))
		return nil
	case <-p.stop:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for the buffered ones to be delivered.
// When ctx expires first, pending retries are aborted and ctx's error is returned.
func (p *WorkerPool) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.stop)
	p.mu.Unlock()

	p.senders.Wait()
	close(p.tasks)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.log.Info("fanout worker pool drained")
		return nil
	case <-ctx.Done():
		p.cancel()
		p.log.Warn("fanout worker pool shutdown timed out", zap.Int("pending", len(p.tasks)))
		return ctx.Err()
	}
}

package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaQueue publishes tasks to a topic; a KafkaConsumer delivers them
type KafkaQueue struct {
	writer  *kafka.Writer
	metrics *telemetry.Metrics
}

// NewKafkaQueue creates a producer for topic
func NewKafkaQueue(brokers []string, topic string, metrics *telemetry.Metrics) *KafkaQueue {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaQueue{writer: w, metrics: metrics}
}

// Enqueue writes the task keyed by recipient so one user's tasks stay ordered on a partition
func (q *KafkaQueue) Enqueue(ctx context.Context, task Task) error {
	value, err := json.Marshal(task)
	if err != nil {
		return err
	}
	err = q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(task.RecipientID), 10)),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return err
	}
	q.metrics.FanoutTasks.WithLabelValues("enqueued").Inc()
	return nil
}

// Close flushes pending writes and closes the producer
func (q *KafkaQueue) Close(context.Context) error {
	return q.writer.Close()
}

// KafkaConsumer reads tasks from a consumer group and hands them to a Handler
type KafkaConsumer struct {
	reader  *kafka.Reader
	retry   RetryPolicy
	log     *zap.Logger
	metrics *telemetry.Metrics
}

// NewKafkaConsumer creates a group reader for topic
func NewKafkaConsumer(brokers []string, topic, groupID string, retry RetryPolicy, log *zap.Logger, metrics *telemetry.Metrics) *KafkaConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	return &KafkaConsumer{reader: r, retry: retry, log: log.Named("fanout.kafka"), metrics: metrics}
}

// Run consumes until ctx is cancelled. Offsets are committed after delivery,
// including for tasks dropped once their retries are exhausted.
func (c *KafkaConsumer) Run(ctx context.Context, h Handler) error {
	c.log.Info("kafka consumer started", zap.String("topic", c.reader.Config().Topic))
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		var task Task
		if err := json.Unmarshal(m.Value, &task); err != nil {
			c.log.Error("kafka: bad task payload", zap.Int64("offset", m.Offset), zap.Error(err))
		} else {
			_ = deliver(ctx, h, task, c.retry, c.log, c.metrics)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Close leaves the consumer group
func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

// Package events carries single-entity index events over the task queue.
// The HTTP handler enqueues, the embedded worker consumes. Delivery is at
// most once: a failed event is logged and dropped, the document stays
// stale until the next bulk resync repairs it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/pedalfleet/searchd/internal/domain"
)

const (
	// TypeIndexEvent is the task type for single-entity index events.
	TypeIndexEvent = "index:event"

	// QueueIndexing is the dedicated queue for index events.
	QueueIndexing = "indexing"

	taskTimeout = 30 * time.Second
)

// NewIndexEventTask wraps an index event in a queue task. MaxRetry(0)
// keeps delivery at most once.
func NewIndexEventTask(event domain.IndexEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal index event: %w", err)
	}
	return asynq.NewTask(TypeIndexEvent, payload,
		asynq.MaxRetry(0),
		asynq.Timeout(taskTimeout),
		asynq.Queue(QueueIndexing),
	), nil
}

// Enqueuer publishes index events onto the task queue.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates an event publisher backed by the given redis
// connection.
func NewEnqueuer(opt asynq.RedisClientOpt) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(opt)}
}

// Publish enqueues one index event.
func (e *Enqueuer) Publish(ctx context.Context, event domain.IndexEvent) error {
	task, err := NewIndexEventTask(event)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue index event: %w", err)
	}
	return nil
}

// Close shuts down the underlying queue client.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}

// Processor consumes index event tasks from the queue.
type Processor struct {
	handler EventHandler
	logger  *zap.Logger
}

// NewProcessor creates the queue-side consumer.
func NewProcessor(handler EventHandler, logger *zap.Logger) *Processor {
	return &Processor{handler: handler, logger: logger}
}

// HandleIndexEvent decodes and applies one index event. A payload that
// cannot be decoded is dropped via SkipRetry, it will not improve on
// redelivery.
func (p *Processor) HandleIndexEvent(ctx context.Context, t *asynq.Task) error {
	var event domain.IndexEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		p.logger.Error("dropping undecodable index event", zap.Error(err))
		return fmt.Errorf("unmarshal index event: %v: %w", err, asynq.SkipRetry)
	}
	return p.handler.ProcessIndexEvent(ctx, event)
}

// NewMux routes queue tasks to their handlers.
func NewMux(p *Processor) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeIndexEvent, p.HandleIndexEvent)
	return mux
}

// NewServer builds the embedded queue worker. Failed events are logged by
// the error handler and then dropped, MaxRetry(0) means asynq never
// redelivers them.
func NewServer(opt asynq.RedisClientOpt, concurrency int, logger *zap.Logger) *asynq.Server {
	return asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueIndexing: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			logger.Error("index event processing failed, event dropped",
				zap.String("type", task.Type()),
				zap.ByteString("payload", task.Payload()),
				zap.Error(err),
			)
		}),
	})
}

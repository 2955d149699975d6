package adapters

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// JobHandler processes one message taken from a queue.
type JobHandler func(ctx context.Context, data []byte) error

// QueueAdapter is the interface to a message queue. The evaluation pipeline
// publishes generation outputs here; a broker-backed implementation can
// replace the in-memory one without touching the services.
type QueueAdapter interface {
	Publish(ctx context.Context, queueName string, jobData []byte) error
	StartConsuming(ctx context.Context, queueName string, handler JobHandler) error
	Stop()
}

// InMemoryQueueAdapter implements QueueAdapter with buffered channels.
type InMemoryQueueAdapter struct {
	queues map[string]chan []byte
	mu     sync.Mutex
	logger *log.Logger

	consumerCtx context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

var _ QueueAdapter = (*InMemoryQueueAdapter)(nil)

func NewInMemoryQueueAdapter(logger *log.Logger) *InMemoryQueueAdapter {
	ctx, cancel := context.WithCancel(context.Background())
	return &InMemoryQueueAdapter{
		queues:      make(map[string]chan []byte),
		logger:      logger,
		consumerCtx: ctx,
		cancel:      cancel,
	}
}

func (q *InMemoryQueueAdapter) getOrCreateQueue(queueName string) chan []byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.queues[queueName]; !ok {
		q.queues[queueName] = make(chan []byte, 100)
	}
	return q.queues[queueName]
}

// Publish enqueues a message, giving up after two seconds when the queue
// stays full.
func (q *InMemoryQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	queue := q.getOrCreateQueue(queueName)
	select {
	case queue <- jobData:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
		q.logger.Printf("Timed out publishing to queue %q, queue full", queueName)
		return errors.New("timeout publishing to queue: " + queueName)
	}
}

// StartConsuming runs handler for every message on the queue until the
// adapter is stopped or the passed context is cancelled.
func (q *InMemoryQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler JobHandler) error {
	queue := q.getOrCreateQueue(queueName)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case data := <-queue:
				if err := handler(q.consumerCtx, data); err != nil {
					q.logger.Printf("Failed to process message from queue %q: %v", queueName, err)
				}
			case <-ctx.Done():
				return
			case <-q.consumerCtx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop cancels all consumers and waits for them to drain.
func (q *InMemoryQueueAdapter) Stop() {
	q.cancel()
	q.wg.Wait()
}

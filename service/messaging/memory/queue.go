package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viant/posts/internal/idgen"
	"github.com/viant/posts/service/messaging"
)

// Config for memory queue implementation
type Config struct {
	Buffer     int
	MaxRetries int
	RetryDelay time.Duration
	DeadLetter bool
}

// DefaultConfig returns a standard configuration for memory queue
func DefaultConfig() Config {
	return Config{
		Buffer:     100,
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
		DeadLetter: true,
	}
}

// Message is a single in-flight delivery.
type Message[T any] struct {
	id       string
	payload  T
	queue    *Queue[T]
	attempts int
	mu       sync.Mutex
	settled  bool
}

// ID returns the message identifier, stable across redeliveries.
func (m *Message[T]) ID() string { return m.id }

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.payload
}

// Ack acknowledges the message as processed successfully
func (m *Message[T]) Ack() error {
	return m.settle()
}

// Nack schedules a redelivery until MaxRetries is exhausted, then moves the
// message to the dead letter list when enabled.
func (m *Message[T]) Nack(_ error) error {
	if err := m.settle(); err != nil {
		return err
	}
	q := m.queue
	if m.attempts <= q.config.MaxRetries {
		next := &Message[T]{id: m.id, payload: m.payload, queue: q, attempts: m.attempts + 1}
		time.AfterFunc(q.config.RetryDelay, func() {
			// a full buffer dead-letters the redelivery instead of blocking the timer
			select {
			case q.messages <- next:
			default:
				q.deadLetter(next)
			}
		})
		return nil
	}
	q.deadLetter(m)
	return nil
}

func (m *Message[T]) settle() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settled {
		return fmt.Errorf("message %s already settled", m.id)
	}
	m.settled = true
	return nil
}

// Queue implements a bounded, in-memory messaging.Queue
type Queue[T any] struct {
	messages chan *Message[T]
	config   Config
	dlqMu    sync.Mutex
	dlq      []*Message[T]
}

// NewQueue creates a new in-memory queue
func NewQueue[T any](config Config) *Queue[T] {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	return &Queue[T]{
		messages: make(chan *Message[T], config.Buffer),
		config:   config,
	}
}

// Publish enqueues a copy of t without blocking; a full buffer yields messaging.ErrQueueFull.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{id: idgen.New(), payload: *t, queue: q, attempts: 1}
	select {
	case q.messages <- msg:
		return nil
	default:
		return messaging.ErrQueueFull
	}
}

// Consume retrieves a single item from the queue
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Size returns the current number of messages in the queue
func (q *Queue[T]) Size() int {
	return len(q.messages)
}

// DLQSize returns the number of messages in the dead letter queue
func (q *Queue[T]) DLQSize() int {
	q.dlqMu.Lock()
	defer q.dlqMu.Unlock()
	return len(q.dlq)
}

func (q *Queue[T]) deadLetter(m *Message[T]) {
	if !q.config.DeadLetter {
		return
	}
	q.dlqMu.Lock()
	q.dlq = append(q.dlq, m)
	q.dlqMu.Unlock()
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)

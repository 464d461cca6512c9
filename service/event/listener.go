package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/posts/service/messaging"
)

// Listener drains a publisher on its own goroutine and passes every event to
// handler. Events are acked when handler succeeds and nacked when it fails, so
// the queue decides on redelivery or dead lettering.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T]) error
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T]) error, logger *slog.Logger) *Listener[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		logger:    logger,
	}
}

// Start launches the consume loop; it is a no-op when already running.
func (l *Listener[T]) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	go l.run(ctx, l.done)
}

// Stop cancels the consume loop and waits for it to exit.
func (l *Listener[T]) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *Listener[T]) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		msg, err := l.publisher.Consume(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			l.logger.Warn("failed to consume event", "error", err)
			continue
		}
		if msg == nil {
			continue
		}
		l.deliver(msg)
	}
}

func (l *Listener[T]) deliver(msg messaging.Message[Event[T]]) {
	event := msg.T()
	if err := l.handle(event); err != nil {
		l.logger.Warn("event handler failed", "type", event.Type(), "error", err)
		if nErr := msg.Nack(err); nErr != nil {
			l.logger.Warn("failed to nack event", "error", nErr)
		}
		return
	}
	if err := msg.Ack(); err != nil {
		l.logger.Warn("failed to ack event", "error", err)
	}
}

// handle converts a handler panic into an error so the event gets nacked.
func (l *Listener[T]) handle(event *Event[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	return l.handler(event)
}

package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/posts/service/messaging/memory"
	"go.uber.org/goleak"
)

func TestListener(t *testing.T) {
	defer goleak.VerifyNone(t)

	queue := memory.NewQueue[Event[string]](memory.DefaultConfig())
	publisher := NewPublisher[string](queue)

	var mu sync.Mutex
	var received []string
	listener := NewListener[string](publisher, func(e *Event[string]) error {
		mu.Lock()
		received = append(received, e.Data)
		mu.Unlock()
		return nil
	}, nil)
	listener.Start(context.Background())
	listener.Start(context.Background())

	ctx := context.Background()
	for _, data := range []string{"a", "b", "c"} {
		require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{EventType: PostCreated}, data)))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 3
	}, time.Second, 5*time.Millisecond)

	listener.Stop()
	listener.Stop()
	mu.Lock()
	assert.Equal(t, []string{"a", "b", "c"}, received)
	mu.Unlock()
	assert.Equal(t, 0, queue.DLQSize())
}

func TestListener_FailingHandlerDeadLetters(t *testing.T) {
	defer goleak.VerifyNone(t)

	config := memory.DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 5 * time.Millisecond
	queue := memory.NewQueue[Event[string]](config)
	publisher := NewPublisher[string](queue)

	var calls atomic.Int32
	listener := NewListener[string](publisher, func(e *Event[string]) error {
		calls.Add(1)
		return errors.New("handler failed")
	}, nil)
	listener.Start(context.Background())

	require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{EventType: PostCreated}, "x")))

	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 }, time.Second, 5*time.Millisecond)
	listener.Stop()
	assert.Equal(t, int32(config.MaxRetries+1), calls.Load())
	assert.Equal(t, 0, queue.Size())
}

func TestListener_PanicIsRetried(t *testing.T) {
	defer goleak.VerifyNone(t)

	config := memory.DefaultConfig()
	config.RetryDelay = 5 * time.Millisecond
	queue := memory.NewQueue[Event[string]](config)
	publisher := NewPublisher[string](queue)

	var calls atomic.Int32
	var delivered atomic.Bool
	listener := NewListener[string](publisher, func(e *Event[string]) error {
		if calls.Add(1) == 1 {
			panic("first delivery")
		}
		delivered.Store(true)
		return nil
	}, nil)
	listener.Start(context.Background())

	require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{EventType: PostCreated}, "x")))

	assert.Eventually(t, delivered.Load, time.Second, 5*time.Millisecond)
	listener.Stop()
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, queue.DLQSize())
}

func TestEvent_Type(t *testing.T) {
	var nilEvent *Event[int]
	assert.Equal(t, "", nilEvent.Type())
	assert.Equal(t, "", NewEvent[int](nil, 1).Type())
	assert.Equal(t, PostCreated, NewEvent(&Context{EventType: PostCreated}, 1).Type())
}

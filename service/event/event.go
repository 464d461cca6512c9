package event

import (
	"time"

	"github.com/viant/posts/internal/clock"
)

// PostCreated is the type of the event emitted after a post is appended.
const PostCreated = "post.created"

type Context struct {
	EventType   string `json:"eventType"`
	Service     string `json:"service"`
	Method      string `json:"method"`
	TimeTakenMs int    `json:"timeTakenMs"`
}

type Event[T any] struct {
	Context   *Context               `json:"context"`
	CreatedAt time.Time              `json:"createdAt"`
	Metadata  map[string]interface{} `json:"metadata"`
	Data      T                      `json:"data"`
}

func NewEvent[T any](context *Context, data T) *Event[T] {
	return &Event[T]{
		Context:   context,
		CreatedAt: clock.Now(),
		Metadata:  make(map[string]interface{}),
		Data:      data,
	}
}

// Type returns the event type or an empty string.
func (e *Event[T]) Type() string {
	if e == nil || e.Context == nil {
		return ""
	}
	return e.Context.EventType
}

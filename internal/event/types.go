package event

import (
	"context"

	"github.com/dmnkit/dmnview/internal/event/topic"
)

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for handlers that must observe a notification
	// before anyone else (viewer bookkeeping, internal state).
	PriorityCritical Priority = 0

	// PriorityHigh is for host integrations that rewrite in-flight
	// values (parse and serialize hooks).
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for metrics and logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler is the interface for notification handlers.
type Handler interface {
	// Handle processes a notification.
	// The event parameter is type-erased; handlers should type-assert
	// to the payload type published for the topic.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// FilterFunc decides whether an event should be delivered to a
// subscription. Returning false skips the handler without error.
type FilterFunc func(event any) bool

// TopicProvider is implemented by payload types that carry their topic.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// Stats contains bus delivery counters.
type Stats struct {
	EventsPublished   uint64
	HandlersExecuted  uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

package event

import (
	"context"
	"sync/atomic"

	"github.com/dmnkit/dmnview/internal/event/topic"
)

// Bus is the notification bus interface.
type Bus interface {
	// Publish delivers an event to all matching subscriptions in
	// priority order, synchronously in the caller's goroutine. The
	// event must implement TopicProvider. Publish returns the first
	// handler error or panic encountered; remaining handlers still run.
	Publish(ctx context.Context, event any) error

	// Subscribe creates a subscription for the given topic pattern.
	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)

	// SubscribeFunc is a convenience method for subscribing with a
	// function handler.
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Once subscribes a handler that auto-cancels after its first
	// successful delivery.
	Once(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)

	// Unsubscribe removes a subscription.
	Unsubscribe(sub Subscription) error

	// Stats returns current bus statistics.
	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	registry *Registry
	exec     executor
	seq      atomic.Uint64

	// Stats
	eventsPublished  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*bus)

// WithPanicHandler sets a callback invoked whenever a handler panics,
// in addition to the panic being reported through Publish's error.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *bus) {
		b.exec.panicHandler = h
	}
}

// NewBus creates a new notification bus.
func NewBus(opts ...BusOption) Bus {
	b := &bus{registry: NewRegistry()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers an event synchronously to matching subscriptions.
func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	eventTopic := tp.EventTopic()
	if eventTopic == "" {
		return ErrInvalidEvent
	}

	b.eventsPublished.Add(1)

	var firstErr error
	for _, sub := range b.registry.MatchActive(eventTopic) {
		if !sub.ShouldDeliver(event) {
			continue
		}

		result := b.exec.execute(ctx, event, sub.Handler())
		b.handlersExecuted.Add(1)

		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
			if firstErr == nil {
				firstErr = &PanicError{
					SubscriptionID: sub.ID(),
					Topic:          eventTopic.String(),
					Value:          result.PanicValue,
					Stack:          string(result.Stack),
				}
			}
		case result.Error != nil:
			b.handlerErrors.Add(1)
			if firstErr == nil {
				firstErr = &HandlerError{
					SubscriptionID: sub.ID(),
					Topic:          eventTopic.String(),
					Err:            result.Error,
				}
			}
		}

		if sub.Config().Once && result.Success {
			sub.Cancel()
			b.registry.Remove(sub.ID())
		}
	}

	return firstErr
}

// Subscribe creates a new subscription for the given topic pattern.
// This method is safe to call concurrently.
func (b *bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	sub := newSubscription(generateID(), pattern, handler, b.seq.Add(1), opts...)
	b.registry.Add(sub)

	return sub, nil
}

// SubscribeFunc subscribes a function handler.
func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Once subscribes a function handler that auto-cancels after its first
// successful delivery.
func (b *bus) Once(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	opts = append(opts, WithOnce())
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe removes a subscription.
// This method is safe to call concurrently.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.CountActive(),
	}
}

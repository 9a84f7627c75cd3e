package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dmnkit/dmnview/internal/event/topic"
)

// testEvent is a minimal payload carrying its own topic.
type testEvent struct {
	topic topic.Topic
	value string
}

func (e *testEvent) EventTopic() topic.Topic { return e.topic }

func TestNewBus(t *testing.T) {
	bus := NewBus()
	if bus == nil {
		t.Fatal("NewBus() returned nil")
	}
}

func TestBus_PublishDelivers(t *testing.T) {
	bus := NewBus()

	var got string
	_, err := bus.SubscribeFunc("views.changed", func(_ context.Context, event any) error {
		got = event.(*testEvent).value
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc() failed: %v", err)
	}

	if err := bus.Publish(context.Background(), &testEvent{topic: "views.changed", value: "hello"}); err != nil {
		t.Fatalf("Publish() failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("handler saw %q, want %q", got, "hello")
	}
}

func TestBus_PublishNoTopic(t *testing.T) {
	bus := NewBus()
	if err := bus.Publish(context.Background(), struct{}{}); err != ErrInvalidEvent {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestBus_PriorityOrdering(t *testing.T) {
	bus := NewBus()

	var order []string
	record := func(name string) HandlerFunc {
		return func(_ context.Context, _ any) error {
			order = append(order, name)
			return nil
		}
	}

	bus.SubscribeFunc("import.done", record("low"), WithPriority(PriorityLow))
	bus.SubscribeFunc("import.done", record("critical"), WithPriority(PriorityCritical))
	bus.SubscribeFunc("import.done", record("normal"))

	bus.Publish(context.Background(), &testEvent{topic: "import.done"})

	want := []string{"critical", "normal", "low"}
	if len(order) != len(want) {
		t.Fatalf("executed %d handlers, want %d", len(order), len(want))
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("handler %d = %q, want %q", i, order[i], name)
		}
	}
}

func TestBus_SamePriorityRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		bus.SubscribeFunc("attach", func(_ context.Context, _ any) error {
			order = append(order, i)
			return nil
		})
	}

	bus.Publish(context.Background(), &testEvent{topic: "attach"})

	for i, got := range order {
		if got != i {
			t.Fatalf("delivery order %v not registration order", order)
		}
	}
}

func TestBus_WildcardPattern(t *testing.T) {
	bus := NewBus()

	var topics []string
	bus.SubscribeFunc("import.*", func(_ context.Context, event any) error {
		topics = append(topics, event.(*testEvent).topic.String())
		return nil
	})

	bus.Publish(context.Background(), &testEvent{topic: "import.parse.start"})
	bus.Publish(context.Background(), &testEvent{topic: "import.done"})
	bus.Publish(context.Background(), &testEvent{topic: "views.changed"})

	if len(topics) != 2 {
		t.Fatalf("wildcard matched %v, want 2 import topics", topics)
	}
}

func TestBus_Once(t *testing.T) {
	bus := NewBus()

	count := 0
	sub, err := bus.Once("viewer.created", func(_ context.Context, _ any) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Once() failed: %v", err)
	}

	bus.Publish(context.Background(), &testEvent{topic: "viewer.created"})
	bus.Publish(context.Background(), &testEvent{topic: "viewer.created"})

	if count != 1 {
		t.Errorf("once handler ran %d times, want 1", count)
	}
	if sub.IsActive() {
		t.Error("once subscription still active after delivery")
	}
}

func TestBus_Filter(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.SubscribeFunc("views.changed", func(_ context.Context, _ any) error {
		count++
		return nil
	}, WithFilter(func(event any) bool {
		return event.(*testEvent).value == "keep"
	}))

	bus.Publish(context.Background(), &testEvent{topic: "views.changed", value: "drop"})
	bus.Publish(context.Background(), &testEvent{topic: "views.changed", value: "keep"})

	if count != 1 {
		t.Errorf("filtered handler ran %d times, want 1", count)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	sub, _ := bus.SubscribeFunc("detach", func(_ context.Context, _ any) error {
		count++
		return nil
	})

	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() failed: %v", err)
	}
	if err := bus.Unsubscribe(sub); err != ErrSubscriptionNotFound {
		t.Errorf("second Unsubscribe() = %v, want ErrSubscriptionNotFound", err)
	}

	bus.Publish(context.Background(), &testEvent{topic: "detach"})
	if count != 0 {
		t.Error("handler ran after unsubscribe")
	}
}

func TestBus_HandlerError(t *testing.T) {
	bus := NewBus()

	boom := errors.New("boom")
	bus.SubscribeFunc("import.done", func(_ context.Context, _ any) error {
		return boom
	})

	ran := false
	bus.SubscribeFunc("import.done", func(_ context.Context, _ any) error {
		ran = true
		return nil
	}, WithPriority(PriorityLow))

	err := bus.Publish(context.Background(), &testEvent{topic: "import.done"})
	if !errors.Is(err, boom) {
		t.Errorf("Publish() = %v, want wrapped boom", err)
	}
	if !ran {
		t.Error("later handler skipped after earlier handler error")
	}
}

func TestBus_HandlerPanic(t *testing.T) {
	bus := NewBus()

	bus.SubscribeFunc("saveXML.done", func(_ context.Context, _ any) error {
		panic("listener blew up")
	})

	err := bus.Publish(context.Background(), &testEvent{topic: "saveXML.done"})
	if !errors.Is(err, ErrHandlerPanic) {
		t.Errorf("Publish() = %v, want ErrHandlerPanic", err)
	}

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatal("error is not a *PanicError")
	}
	if pe.Value != "listener blew up" {
		t.Errorf("PanicValue = %v", pe.Value)
	}
}

func TestBus_PayloadMutation(t *testing.T) {
	bus := NewBus()

	// Two rewrite hooks; the later one sees the earlier rewrite.
	bus.SubscribeFunc("import.parse.start", func(_ context.Context, event any) error {
		event.(*testEvent).value += "-first"
		return nil
	}, WithPriority(PriorityHigh))
	bus.SubscribeFunc("import.parse.start", func(_ context.Context, event any) error {
		event.(*testEvent).value += "-second"
		return nil
	}, WithPriority(PriorityNormal))

	ev := &testEvent{topic: "import.parse.start", value: "xml"}
	bus.Publish(context.Background(), ev)

	if ev.value != "xml-first-second" {
		t.Errorf("payload = %q, want chained rewrites", ev.value)
	}
}

func TestBus_Stats(t *testing.T) {
	bus := NewBus()
	bus.SubscribeFunc("attach", func(_ context.Context, _ any) error { return nil })

	bus.Publish(context.Background(), &testEvent{topic: "attach"})
	bus.Publish(context.Background(), &testEvent{topic: "attach"})

	stats := bus.Stats()
	if stats.EventsPublished != 2 {
		t.Errorf("EventsPublished = %d, want 2", stats.EventsPublished)
	}
	if stats.HandlersExecuted != 2 {
		t.Errorf("HandlersExecuted = %d, want 2", stats.HandlersExecuted)
	}
	if stats.ActiveSubscribers != 1 {
		t.Errorf("ActiveSubscribers = %d, want 1", stats.ActiveSubscribers)
	}
}

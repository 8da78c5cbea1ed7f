package events

import (
	"testing"
	"time"
)

func created(id string) TaskCreatedEvent {
	return TaskCreatedEvent{Project: "WEBRED", ID: id, Status: "TODO", Position: 10, Timestamp: time.Now()}
}

// TestPublishSubscribe verifies basic publish/subscribe functionality.
func TestPublishSubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch := bus.Subscribe(TopicTask, 10)
	bus.Publish(TopicTask, created("WEBRED-1"))

	select {
	case received := <-ch:
		if received.TaskID() != "WEBRED-1" {
			t.Errorf("expected task ID 'WEBRED-1', got '%s'", received.TaskID())
		}
		if received.ProjectCode() != "WEBRED" {
			t.Errorf("expected project 'WEBRED', got '%s'", received.ProjectCode())
		}
		if received.EventType() != EventTypeTaskCreated {
			t.Errorf("expected event type '%s', got '%s'", EventTypeTaskCreated, received.EventType())
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

// TestMultipleSubscribers verifies multiple subscribers receive the same event.
func TestMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch1 := bus.Subscribe(TopicTask, 10)
	ch2 := bus.Subscribe(TopicTask, 10)

	bus.Publish(TopicTask, TaskMovedEvent{Project: "WEBRED", ID: "WEBRED-2", From: "TODO", To: "TODO", Position: 15})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			if received.TaskID() != "WEBRED-2" {
				t.Errorf("subscriber %d: expected task ID 'WEBRED-2', got '%s'", i+1, received.TaskID())
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("subscriber %d: timeout waiting for event", i+1)
		}
	}
}

// TestNonBlockingSend verifies that publishing doesn't block when channels are full.
func TestNonBlockingSend(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ch := bus.Subscribe(TopicTask, 1)

	done := make(chan bool)
	go func() {
		for i := 0; i < 10; i++ {
			bus.Publish(TopicTask, created("WEBRED-1"))
		}
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("publisher blocked (expected non-blocking behavior)")
	}

	select {
	case received := <-ch:
		if received == nil {
			t.Error("received nil event")
		}
	default:
		t.Error("expected at least one event in buffer")
	}
}

// TestCloseSignalsSubscribers verifies that closing the bus closes subscriber channels.
func TestCloseSignalsSubscribers(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe(TopicTask, 10)

	bus.Close()
	bus.Close() // idempotent

	received := 0
	for range ch {
		received++
	}
	if received != 0 {
		t.Errorf("expected 0 events after close, got %d", received)
	}

	// Subscribing after close yields a closed channel
	if _, ok := <-bus.SubscribeAll(1); ok {
		t.Error("subscription after close should be closed")
	}
}

// TestPublishAfterClose verifies publishing after close doesn't panic.
func TestPublishAfterClose(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe(TopicTask, 10)
	bus.Close()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("publishing after close caused panic: %v", r)
		}
	}()
	bus.Publish(TopicTask, created("WEBRED-1"))

	if _, ok := <-ch; ok {
		t.Error("received event after bus was closed")
	}
}

// TestTopicOf verifies events are routed to their topics and isolated.
func TestTopicOf(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	taskCh := bus.Subscribe(TopicTask, 10)
	colCh := bus.Subscribe(TopicColumn, 10)

	for _, e := range []Event{
		TaskStatusChangedEvent{Project: "P", ID: "P-1", From: "TODO", To: "IN_REVIEW", Automatic: []string{"IN_PROGRESS", "IN_REVIEW"}},
		ColumnRenumberedEvent{Project: "P", Status: "TODO", Changed: 3},
	} {
		bus.Publish(TopicOf(e), e)
	}

	select {
	case received := <-taskCh:
		if received.EventType() != EventTypeTaskStatusChanged {
			t.Errorf("task channel: got %s", received.EventType())
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("task channel: timeout waiting for event")
	}

	select {
	case received := <-colCh:
		if received.EventType() != EventTypeColumnRenumbered || received.TaskID() != "" {
			t.Errorf("column channel: got %s (%q)", received.EventType(), received.TaskID())
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("column channel: timeout waiting for event")
	}

	select {
	case <-taskCh:
		t.Error("task channel received unexpected event")
	case <-colCh:
		t.Error("column channel received unexpected event")
	case <-time.After(10 * time.Millisecond):
	}

	if TopicOf(ProjectCreatedEvent{Project: "P"}) != TopicProject {
		t.Error("project events belong on the project topic")
	}
}

// TestSubscribeAll verifies that SubscribeAll receives events from all topics.
func TestSubscribeAll(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	allCh := bus.SubscribeAll(20)

	bus.Publish(TopicTask, created("P-1"))
	bus.Publish(TopicColumn, ColumnReorderedEvent{Project: "P", Status: "DONE", Tasks: 4})

	receivedTypes := make(map[string]bool)
	for i := 0; i < 2; i++ {
		select {
		case received := <-allCh:
			receivedTypes[received.EventType()] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for event")
		}
	}

	if !receivedTypes[EventTypeTaskCreated] || !receivedTypes[EventTypeColumnReordered] {
		t.Errorf("SubscribeAll missed events: %v", receivedTypes)
	}
}

// TestUnsubscribe verifies a detached channel is closed and stops receiving.
func TestUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	keep := bus.Subscribe(TopicTask, 10)
	drop := bus.Subscribe(TopicTask, 10)
	all := bus.SubscribeAll(10)

	bus.Unsubscribe(drop)
	bus.Unsubscribe(all)
	bus.Unsubscribe(make(chan Event)) // unknown, ignored

	if _, ok := <-drop; ok {
		t.Error("unsubscribed channel should be closed")
	}
	if _, ok := <-all; ok {
		t.Error("unsubscribed SubscribeAll channel should be closed")
	}

	bus.Publish(TopicTask, created("P-1"))
	select {
	case <-keep:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("remaining subscriber missed the event")
	}
}

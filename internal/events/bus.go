package events

import (
	"sync"
)

// Publisher is the write side of the bus, as seen by the board.
type Publisher interface {
	Publish(topic string, event Event)
}

// EventBus is a channel-based pub-sub event bus.
// Supports topic-based subscriptions and SubscribeAll for cross-topic consumption.
type EventBus struct {
	mu      sync.RWMutex
	subs    map[string][]chan Event // topic -> subscriber channels
	allSubs []chan Event            // channels subscribed to all topics
	closed  bool
}

var _ Publisher = (*EventBus)(nil)

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subs: make(map[string][]chan Event),
	}
}

func newSubChan(bufSize int) chan Event {
	if bufSize <= 0 {
		bufSize = 256
	}
	return make(chan Event, bufSize)
}

// Subscribe creates a subscription to a specific topic.
// bufSize determines the channel buffer size (defaults to 256 if <= 0).
func (b *EventBus) Subscribe(topic string, bufSize int) <-chan Event {
	ch := newSubChan(bufSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}
	b.subs[topic] = append(b.subs[topic], ch)
	return ch
}

// SubscribeAll creates a subscription to every topic.
func (b *EventBus) SubscribeAll(bufSize int) <-chan Event {
	ch := newSubChan(bufSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}
	b.allSubs = append(b.allSubs, ch)
	return ch
}

// Unsubscribe detaches and closes a channel returned by Subscribe or
// SubscribeAll. Unknown channels are ignored.
func (b *EventBus) Unsubscribe(sub <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for topic, chans := range b.subs {
		if kept, ch, ok := remove(chans, sub); ok {
			b.subs[topic] = kept
			close(ch)
			return
		}
	}
	if kept, ch, ok := remove(b.allSubs, sub); ok {
		b.allSubs = kept
		close(ch)
	}
}

func remove(chans []chan Event, sub <-chan Event) ([]chan Event, chan Event, bool) {
	for i, ch := range chans {
		if (<-chan Event)(ch) == sub {
			return append(chans[:i:i], chans[i+1:]...), ch, true
		}
	}
	return chans, nil, false
}

// Publish sends an event to all subscribers of the given topic and to every
// SubscribeAll channel. A full subscriber misses the event; Publish never blocks.
func (b *EventBus) Publish(topic string, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
		}
	}
	for _, ch := range b.allSubs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes the event bus and all subscriber channels.
// Safe to call multiple times.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, channels := range b.subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.allSubs {
		close(ch)
	}
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(string, Event) {}

package scan

import (
	"sync"
	"sync/atomic"

	"scandoc/internal/verification"
)

// Event is the tagged union published by the pipeline. Exactly one stage
// produces each variant; delivery is fire-and-forget broadcast, at most once
// per subscriber, never replayed.
type Event interface {
	event()
}

// ValidationProgress is published for every validation verdict, final or not,
// so the consumer can render live feedback.
type ValidationProgress struct {
	InfoCode string
}

// ExtractionProgress is published once per cycle when a confirmed capture is
// handed to extraction.
type ExtractionProgress struct{}

// Extracted carries the decoded extraction result.
type Extracted struct {
	DocumentImages [][]byte
	FaceImage      []byte
	SignatureImage []byte
	Fields         map[verification.Field]string
}

// NetworkError reports a failed request. Every failure path produces exactly
// one of these before any retry backoff.
type NetworkError struct {
	Err error
}

func (ValidationProgress) event() {}
func (ExtractionProgress) event() {}
func (Extracted) event()          {}
func (NetworkError) event()       {}

type subscriber struct {
	ch      chan Event
	dropped atomic.Uint64
}

// Bus broadcasts events to any number of subscribers. Publish never blocks
// the pipeline: each subscriber gets a buffered channel and events are
// dropped for a subscriber whose buffer is full (drop-new).
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	closed      bool
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]*subscriber)}
}

// Subscribe registers a consumer. The returned channel is closed by Close or
// Unsubscribe.
func (b *Bus) Subscribe(id string, buffer int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		closed := make(chan Event)
		close(closed)
		return closed
	}
	sub := &subscriber{ch: make(chan Event, buffer)}
	b.subscribers[id] = sub
	return sub.ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

// Publish delivers the event to every subscriber whose buffer has room.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subscribers {
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Dropped reports how many events a slow subscriber has missed.
func (b *Bus) Dropped(id string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if sub, ok := b.subscribers[id]; ok {
		return sub.dropped.Load()
	}
	return 0
}

// Close tears the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}

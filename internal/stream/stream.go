package stream

import (
	"context"
	"sync"
	"time"
)

// QueryEvent describes one query execution for the live activity feed.
type QueryEvent struct {
	WorkspaceID string    `json:"workspaceId"`
	EndpointID  string    `json:"endpointId"`
	User        string    `json:"user"`
	Status      string    `json:"status"`
	DurationMs  int64     `json:"durationMs"`
	RowCount    int       `json:"rowCount"`
	Timestamp   time.Time `json:"timestamp"`
}

// Stream fan-outs query events to all active subscribers (SSE clients).
type Stream struct {
	mu   sync.RWMutex
	subs map[int]chan QueryEvent
	next int
}

// New initialises an empty stream.
func New() *Stream {
	return &Stream{
		subs: make(map[int]chan QueryEvent),
	}
}

// Subscribe registers a subscriber and returns a channel which will receive
// events. The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context) <-chan QueryEvent {
	ch := make(chan QueryEvent, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (s *Stream) Publish(evt QueryEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

package stream

import (
	"context"
	"slices"
	"sync"

	"entertablock.io/internal/registry"
)

const defaultHistory = 256

// Stream fan-outs registry activities to all active subscribers (SSE/WebSocket
// clients) and keeps a short history for late readers.
type Stream struct {
	mu      sync.RWMutex
	subs    map[int]subscriber
	next    int
	history []registry.Activity
	limit   int
}

type subscriber struct {
	ch    chan registry.Activity
	types []string
}

var _ registry.Emitter = (*Stream)(nil)

// New initialises an empty stream.
func New() *Stream {
	return &Stream{
		subs:  make(map[int]subscriber),
		limit: defaultHistory,
	}
}

// Subscribe registers a subscriber and returns a channel which will receive
// activities of the given types, or all of them when types is empty.
// The channel is closed when the provided context ends.
func (s *Stream) Subscribe(ctx context.Context, types ...string) <-chan registry.Activity {
	ch := make(chan registry.Activity, 16)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = subscriber{ch: ch, types: types}
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

// Emit records the activity and fans it out. It never blocks.
func (s *Stream) Emit(a registry.Activity) {
	s.mu.Lock()
	s.history = append(s.history, a)
	if len(s.history) > s.limit {
		s.history = slices.Clone(s.history[len(s.history)-s.limit:])
	}
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.subs {
		if len(sub.types) > 0 && !slices.Contains(sub.types, a.Type) {
			continue
		}
		select {
		case sub.ch <- a:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}

// Recent returns up to limit activities with a sequence above afterSeq, oldest first.
func (s *Stream) Recent(limit int, afterSeq uint64) []registry.Activity {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []registry.Activity
	for _, a := range s.history {
		if a.Sequence <= afterSeq {
			continue
		}
		out = append(out, a)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// Subscribers reports the number of live subscriptions.
func (s *Stream) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

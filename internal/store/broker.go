package store

import (
	"context"
	"sync"

	"coding-showdown/internal/game"
)

// broker fans committed documents out to room subscribers. Each subscriber
// keeps only the newest pending document, so a slow subscriber skips
// intermediate versions instead of blocking publishers.
type broker struct {
	mu    sync.Mutex
	rooms map[string]map[*subscriber]struct{}
}

func newBroker() *broker {
	return &broker{rooms: make(map[string]map[*subscriber]struct{})}
}

type subscriber struct {
	onSnapshot func(*game.GameState)

	mu      sync.Mutex
	version int64
	pending *game.GameState

	signal chan struct{}
	done   chan struct{}
	once   sync.Once
}

func (b *broker) subscribe(ctx context.Context, roomID string, onSnapshot func(*game.GameState)) (*subscriber, func()) {
	sub := &subscriber{
		onSnapshot: onSnapshot,
		signal:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	b.mu.Lock()
	group := b.rooms[roomID]
	if group == nil {
		group = make(map[*subscriber]struct{})
		b.rooms[roomID] = group
	}
	group[sub] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		sub.once.Do(func() {
			close(sub.done)
			b.remove(roomID, sub)
		})
	}
	go sub.run(ctx, unsubscribe)
	return sub, unsubscribe
}

func (b *broker) remove(roomID string, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	group := b.rooms[roomID]
	if group == nil {
		return
	}
	delete(group, sub)
	if len(group) == 0 {
		delete(b.rooms, roomID)
	}
}

func (b *broker) publish(roomID string, version int64, state *game.GameState) {
	b.mu.Lock()
	group := b.rooms[roomID]
	subs := make([]*subscriber, 0, len(group))
	for sub := range group {
		subs = append(subs, sub)
	}
	b.mu.Unlock()
	for _, sub := range subs {
		sub.offer(version, state)
	}
}

func (b *broker) subscriberCount(roomID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rooms[roomID])
}

// offer queues state unless the subscriber already holds a newer version.
func (s *subscriber) offer(version int64, state *game.GameState) {
	s.mu.Lock()
	if version <= s.version {
		s.mu.Unlock()
		return
	}
	s.version = version
	s.pending = state.Clone()
	s.mu.Unlock()
	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscriber) run(ctx context.Context, unsubscribe func()) {
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.signal:
			s.mu.Lock()
			state := s.pending
			s.pending = nil
			s.mu.Unlock()
			if state != nil {
				s.onSnapshot(state)
			}
		}
	}
}

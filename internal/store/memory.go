package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"coding-showdown/internal/game"
)

// Memory keeps room documents in process. Updates are serialized by a
// single mutex and run on a copy, so a failed mutation leaves no trace.
type Memory struct {
	mu       sync.Mutex
	rooms    map[string]*memoryRoom
	archives map[string][]game.Archive
	broker   *broker
}

type memoryRoom struct {
	state   *game.GameState
	version int64
}

func NewMemory() *Memory {
	return &Memory{
		rooms:    make(map[string]*memoryRoom),
		archives: make(map[string][]game.Archive),
		broker:   newBroker(),
	}
}

func (m *Memory) Get(_ context.Context, roomID string) (*game.GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	return room.state.Clone(), nil
}

func (m *Memory) Create(_ context.Context, roomID string, state *game.GameState) error {
	if state == nil {
		return fmt.Errorf("create %s: nil state: %w", roomID, game.ErrInvalidArgument)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; ok {
		return game.ErrRoomExists
	}
	room := &memoryRoom{state: state.Clone(), version: 1}
	m.rooms[roomID] = room
	m.broker.publish(roomID, room.version, room.state)
	return nil
}

func (m *Memory) Update(ctx context.Context, roomID string, mutate func(*game.GameState) error) (*game.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, game.ErrRoomNotFound
	}
	next := room.state.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	room.state = next
	room.version++
	m.broker.publish(roomID, room.version, next)
	return next.Clone(), nil
}

func (m *Memory) Subscribe(ctx context.Context, roomID string, onSnapshot func(*game.GameState), onError func(error)) func() {
	m.mu.Lock()
	room, ok := m.rooms[roomID]
	if !ok {
		m.mu.Unlock()
		if onError != nil {
			onError(game.ErrRoomNotFound)
		}
		return func() {}
	}
	sub, unsubscribe := m.broker.subscribe(ctx, roomID, onSnapshot)
	sub.offer(room.version, room.state)
	m.mu.Unlock()
	return unsubscribe
}

func (m *Memory) Archive(_ context.Context, archive game.Archive) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.archives[archive.RoomID] {
		if existing.ID == archive.ID {
			return fmt.Errorf("archive %s already exists", archive.ID)
		}
	}
	archive.Snapshot = archive.Snapshot.Clone()
	m.archives[archive.RoomID] = append(m.archives[archive.RoomID], archive)
	return nil
}

func (m *Memory) ListArchives(_ context.Context, roomID string) ([]game.Archive, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]game.Archive, 0, len(m.archives[roomID]))
	for _, archive := range m.archives[roomID] {
		archive.Snapshot = archive.Snapshot.Clone()
		list = append(list, archive)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ArchivedAt.After(list[j].ArchivedAt)
	})
	return list, nil
}

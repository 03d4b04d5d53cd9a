package game

import (
	"context"
	"strings"
	"time"
)

// Store is the shared room document store the engine runs on.
//
// Update runs mutate against the latest committed document and commits the
// result atomically; a mutate error leaves the document unchanged.
// Subscribe pushes the current document on connect and after every commit
// until ctx ends or the returned function is called.
type Store interface {
	Get(ctx context.Context, roomID string) (*GameState, error)
	Create(ctx context.Context, roomID string, state *GameState) error
	Update(ctx context.Context, roomID string, mutate func(*GameState) error) (*GameState, error)
	Subscribe(ctx context.Context, roomID string, onSnapshot func(*GameState), onError func(error)) (unsubscribe func())
	Archive(ctx context.Context, archive Archive) error
	ListArchives(ctx context.Context, roomID string) ([]Archive, error)
}

// EventRecorder is implemented by stores that keep an audit log.
type EventRecorder interface {
	RecordEvent(ctx context.Context, roomID, eventType string, payload any) error
}

type Archive struct {
	ID         string     `json:"id"`
	RoomID     string     `json:"room_id"`
	Round      Round      `json:"round"`
	Snapshot   *GameState `json:"snapshot"`
	ArchivedAt time.Time  `json:"archived_at"`
}

// ArchiveID keys an archive by room and instant.
func ArchiveID(roomID string, at time.Time) string {
	stamp := at.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return roomID + "_" + stamp
}

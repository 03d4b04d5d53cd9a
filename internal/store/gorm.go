package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"coding-showdown/internal/db"
	"coding-showdown/internal/game"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultUpdateRetries = 5

var errStaleVersion = errors.New("room version changed")

// Gorm stores room documents as JSON rows. Updates run in a transaction
// that locks the row where the dialect supports it and commits with a
// version compare-and-swap.
type Gorm struct {
	db      *gorm.DB
	broker  *broker
	retries int
}

func NewGorm(conn *gorm.DB) *Gorm {
	return &Gorm{
		db:      conn,
		broker:  newBroker(),
		retries: defaultUpdateRetries,
	}
}

func (g *Gorm) Get(ctx context.Context, roomID string) (*game.GameState, error) {
	state, _, err := g.load(g.db.WithContext(ctx), roomID, false)
	return state, err
}

func (g *Gorm) load(tx *gorm.DB, roomID string, lock bool) (*game.GameState, db.Room, error) {
	var row db.Room
	query := tx
	if lock && g.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.Where("code = ?", roomID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, row, game.ErrRoomNotFound
		}
		return nil, row, err
	}
	var state game.GameState
	if err := json.Unmarshal(row.State, &state); err != nil {
		return nil, row, fmt.Errorf("decode room %s: %w", roomID, err)
	}
	return &state, row, nil
}

func (g *Gorm) Create(ctx context.Context, roomID string, state *game.GameState) error {
	if state == nil {
		return fmt.Errorf("create %s: nil state: %w", roomID, game.ErrInvalidArgument)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	row := db.Room{
		Code:    roomID,
		Round:   string(state.Round),
		State:   datatypes.JSON(data),
		Version: 1,
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return game.ErrRoomExists
		}
		return err
	}
	g.broker.publish(roomID, row.Version, state)
	return nil
}

func (g *Gorm) Update(ctx context.Context, roomID string, mutate func(*game.GameState) error) (*game.GameState, error) {
	for attempt := 0; attempt < g.retries; attempt++ {
		var committed *game.GameState
		var version int64
		err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			state, row, err := g.load(tx, roomID, true)
			if err != nil {
				return err
			}
			if err := mutate(state); err != nil {
				return err
			}
			data, err := json.Marshal(state)
			if err != nil {
				return err
			}
			result := tx.Model(&db.Room{}).
				Where("id = ? AND version = ?", row.ID, row.Version).
				Updates(map[string]any{
					"state":      datatypes.JSON(data),
					"round":      string(state.Round),
					"version":    gorm.Expr("version + 1"),
					"updated_at": time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errStaleVersion
			}
			committed = state
			version = row.Version + 1
			return nil
		})
		if errors.Is(err, errStaleVersion) {
			log.Printf("room update conflict room=%s attempt=%d", roomID, attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		g.broker.publish(roomID, version, committed)
		return committed, nil
	}
	return nil, fmt.Errorf("update room %s: %w", roomID, game.ErrConflict)
}

// Subscribe delivers snapshots committed through this process. The first
// snapshot is read from the database.
func (g *Gorm) Subscribe(ctx context.Context, roomID string, onSnapshot func(*game.GameState), onError func(error)) func() {
	sub, unsubscribe := g.broker.subscribe(ctx, roomID, onSnapshot)
	state, row, err := g.load(g.db.WithContext(ctx), roomID, false)
	if err != nil {
		unsubscribe()
		if onError != nil {
			onError(err)
		}
		return func() {}
	}
	sub.offer(row.Version, state)
	return unsubscribe
}

func (g *Gorm) Archive(ctx context.Context, archive game.Archive) error {
	data, err := json.Marshal(archive.Snapshot)
	if err != nil {
		return err
	}
	row := db.Archive{
		ArchiveKey: archive.ID,
		RoomCode:   archive.RoomID,
		Round:      string(archive.Round),
		Snapshot:   datatypes.JSON(data),
		ArchivedAt: archive.ArchivedAt,
	}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("archive %s already exists", archive.ID)
		}
		return err
	}
	return nil
}

func (g *Gorm) ListArchives(ctx context.Context, roomID string) ([]game.Archive, error) {
	var rows []db.Archive
	if err := g.db.WithContext(ctx).
		Where("room_code = ?", roomID).
		Order("archived_at desc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	list := make([]game.Archive, 0, len(rows))
	for _, row := range rows {
		var snapshot game.GameState
		if err := json.Unmarshal(row.Snapshot, &snapshot); err != nil {
			return nil, fmt.Errorf("decode archive %s: %w", row.ArchiveKey, err)
		}
		list = append(list, game.Archive{
			ID:         row.ArchiveKey,
			RoomID:     row.RoomCode,
			Round:      game.Round(row.Round),
			Snapshot:   &snapshot,
			ArchivedAt: row.ArchivedAt,
		})
	}
	return list, nil
}

func (g *Gorm) RecordEvent(ctx context.Context, roomID, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	var room db.Room
	if err := g.db.WithContext(ctx).Select("id").Where("code = ?", roomID).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return game.ErrRoomNotFound
		}
		return err
	}
	event := db.Event{
		RoomID:  room.ID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	return g.db.WithContext(ctx).Create(&event).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

package db

import (
	"time"

	"gorm.io/datatypes"
)

// Room holds the live game document of one room. Version increases on
// every committed update.
type Room struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"size:32;uniqueIndex;not null"`
	Round     string         `gorm:"size:16;not null"`
	State     datatypes.JSON `gorm:"not null"`
	Version   int64          `gorm:"not null;default:0"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	Events    []Event
}

type Archive struct {
	ID         uint           `gorm:"primaryKey"`
	ArchiveKey string         `gorm:"size:96;uniqueIndex;not null"`
	RoomCode   string         `gorm:"size:32;index;not null"`
	Round      string         `gorm:"size:16;not null"`
	Snapshot   datatypes.JSON `gorm:"not null"`
	ArchivedAt time.Time      `gorm:"index;not null"`
	CreatedAt  time.Time      `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"not null"`
}

// Question is a row of the question library that extends the built-in bank.
type Question struct {
	ID          uint                        `gorm:"primaryKey"`
	QuestionKey string                      `gorm:"size:64;uniqueIndex;not null"`
	Round       int                         `gorm:"not null;index"`
	Difficulty  string                      `gorm:"size:16;not null"`
	Category    string                      `gorm:"size:32"`
	Points      int                         `gorm:"not null;default:0"`
	Content     string                      `gorm:"type:text;not null"`
	Answer      string                      `gorm:"type:text"`
	Options     datatypes.JSONSlice[string] `gorm:"type:text"`
	Code        string                      `gorm:"type:text"`
	CreatedAt   time.Time                   `gorm:"not null"`
	UpdatedAt   time.Time                   `gorm:"not null"`
}

func (Question) TableName() string {
	return "question_library"
}

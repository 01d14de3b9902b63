package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a note queued for a player who was offline when something
// happened to one of their shops. Deleted once delivered.
type Message struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Receiver uuid.UUID `gorm:"column:receiver;type:varchar(36);not null"`
	Time     time.Time `gorm:"column:time;autoCreateTime"`
	Content  string    `gorm:"column:content;type:text;not null"`
}

// Metadata is a key/value row for schema-level bookkeeping.
type Metadata struct {
	Key   string `gorm:"column:key;type:varchar(255);primaryKey"`
	Value string `gorm:"column:value;type:text;not null"`
}

// Player is a directory row mapping a player uuid to the last seen display
// name and locale. Backs name-based account resolution.
type Player struct {
	UUID   uuid.UUID `gorm:"column:uuid;type:varchar(36);primaryKey"`
	Name   string    `gorm:"column:name;type:varchar(48);not null"`
	Locale string    `gorm:"column:locale;type:varchar(16);not null"`
}

package models

import "time"

// Chat represents a Telegram group chat a Secret Santa campaign runs in.
// Participants, pairs and join tokens all belong to exactly one chat and are
// removed with it.
type Chat struct {
	// ChatID is the Telegram chat identifier (negative for groups).
	ChatID int64 `gorm:"primaryKey;autoIncrement:false"`
	// Title is the chat title at bind time, may be empty.
	Title string
	// CreatedAt is the timestamp of the first bind.
	CreatedAt time.Time
}

// Binding is the singleton "active chat" row. The bot serves one chat at a
// time; rebinding repoints this row instead of relying on insertion order.
type Binding struct {
	ID        uint `gorm:"primaryKey"`
	ChatID    int64
	Chat      Chat `gorm:"foreignKey:ChatID;references:ChatID;constraint:OnDelete:CASCADE"`
	UpdatedAt time.Time
}

// BindingRowID is the fixed primary key of the singleton Binding row.
const BindingRowID uint = 1

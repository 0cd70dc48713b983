package models

import "time"

// Pair is one edge of a persisted gift assignment: the giver buys for the
// receiver. A chat's pair set is always a full derangement of the active
// participants at draw time and is replaced wholesale by the next draw.
type Pair struct {
	ChatID      int64 `gorm:"primaryKey;autoIncrement:false"`
	GiverUserID int64 `gorm:"primaryKey;autoIncrement:false"`
	Chat        Chat  `gorm:"foreignKey:ChatID;references:ChatID;constraint:OnDelete:CASCADE"`
	ReceiverUserID int64
	CreatedAt      time.Time
}

// PairExport is the admin audit view of a pair with display names joined in.
type PairExport struct {
	GiverUserID      int64
	GiverUsername    string
	GiverFullName    string
	ReceiverUserID   int64
	ReceiverUsername string
	ReceiverFullName string
}

// GiverDisplay mirrors Participant.Display for the joined giver columns.
func (e *PairExport) GiverDisplay() string {
	if e.GiverUsername != "" {
		return "@" + e.GiverUsername
	}
	return e.GiverFullName
}

// ReceiverDisplay mirrors Participant.Display for the joined receiver columns.
func (e *PairExport) ReceiverDisplay() string {
	if e.ReceiverUsername != "" {
		return "@" + e.ReceiverUsername
	}
	return e.ReceiverFullName
}

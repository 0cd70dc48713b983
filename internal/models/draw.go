package models

import (
	"time"

	"github.com/lib/pq"
)

// DrawRecord is an audit row written after every completed draw: how many
// participants were shuffled and which givers the private notification could
// not reach. Pairs themselves are not versioned; this is the history that
// survives a re-draw.
type DrawRecord struct {
	ID               uint `gorm:"primaryKey"`
	ChatID           int64
	Chat             Chat `gorm:"foreignKey:ChatID;references:ChatID;constraint:OnDelete:CASCADE"`
	ParticipantCount int
	// FailedRecipients holds "giver_id: reason" entries for deliveries that
	// did not go through.
	FailedRecipients pq.StringArray `gorm:"type:text[]"`
	CreatedAt        time.Time
}

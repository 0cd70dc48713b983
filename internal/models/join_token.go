package models

import "time"

// JoinToken gates participant self-enrollment through a deep link. At most
// one token per chat is open at a time; issuing a new one closes its
// predecessors. An open token may be redeemed repeatedly until closed.
type JoinToken struct {
	// Token is the URL-safe credential embedded in the deep link.
	Token  string `gorm:"primaryKey"`
	ChatID int64
	Chat   Chat `gorm:"foreignKey:ChatID;references:ChatID;constraint:OnDelete:CASCADE"`
	IsOpen bool `gorm:"default:true"`
	CreatedAt time.Time
}

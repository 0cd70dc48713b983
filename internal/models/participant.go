package models

import (
	"strings"
	"time"
)

// Participant is a user enrolled in a chat's Secret Santa. The composite
// (ChatID, UserID) key keeps one row per user per chat; re-enrollment
// refreshes the row instead of duplicating it.
type Participant struct {
	ChatID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID int64 `gorm:"primaryKey;autoIncrement:false"`
	Chat   Chat  `gorm:"foreignKey:ChatID;references:ChatID;constraint:OnDelete:CASCADE"`
	// Username is the @handle without the "@", lower-cased; may be empty.
	Username string
	// FullName is the Telegram display name; never empty, a fallback is
	// substituted during enrollment.
	FullName string
	// IsActive marks eligibility for a draw. Removal deactivates rather than
	// deletes so historical pairs keep resolving.
	IsActive bool `gorm:"default:true"`
	// Wishlist is free-text gift preferences, empty when not set.
	Wishlist string
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

// Display returns how a participant is shown in lists and notifications:
// "@username" when the handle is known, the full name otherwise.
func (p *Participant) Display() string {
	if p.Username != "" {
		return "@" + p.Username
	}
	return p.FullName
}

// HasWishlist reports whether the participant wrote a non-blank wishlist.
func (p *Participant) HasWishlist() bool {
	return strings.TrimSpace(p.Wishlist) != ""
}

// NormalizeUsername strips a leading "@" and lower-cases the handle for the
// case-insensitive uniqueness the lookup queries assume.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

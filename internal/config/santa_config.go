package config

import "time"

const (
	// Wishlist
	WishlistMaxLen = 600

	// Assignment engine
	MaxShuffleAttempts = 2000

	// Join tokens
	JoinTokenLength = 20

	// Draw serialization
	DrawLockTTL = 2 * time.Minute
)

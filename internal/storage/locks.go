package storage

import (
	"context"
	"strconv"

	"santagogo/backend/internal/config"
)

func drawLockKey(chatID int64) string {
	return "santa:draw_lock:" + strconv.FormatInt(chatID, 10)
}

// AcquireDrawLock takes the per-chat draw lock in Redis. Returns false when
// another draw already holds it. The TTL guards against a crashed holder
// wedging the chat forever.
func (s *Service) AcquireDrawLock(ctx context.Context, chatID int64) (bool, error) {
	return s.Redis.SetNX(ctx, drawLockKey(chatID), "1", config.DrawLockTTL).Result()
}

// ReleaseDrawLock drops the per-chat draw lock.
func (s *Service) ReleaseDrawLock(ctx context.Context, chatID int64) error {
	return s.Redis.Del(ctx, drawLockKey(chatID)).Err()
}

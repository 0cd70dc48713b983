// Package storage persists the Secret Santa state in PostgreSQL via GORM and
// keeps the per-chat draw lock in Redis. It implements exchange.Storage.
package storage

import (
	"errors"
	"log"

	"santagogo/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor. The Redis client may be nil for offline
// tooling that never takes draw locks.
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{DB: db, Redis: rdb}
}

// BindChat upserts the chat, repoints the singleton binding row at it and
// closes every open join token system-wide, as one transaction. Closing all
// tokens (not just the chat's own) guarantees stale deep links from a
// previous binding stop working immediately.
func (s *Service) BindChat(chat *models.Chat) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title"}),
		}).Create(chat).Error; err != nil {
			return err
		}

		binding := models.Binding{ID: models.BindingRowID, ChatID: chat.ChatID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"chat_id", "updated_at"}),
		}).Create(&binding).Error; err != nil {
			return err
		}

		return tx.Model(&models.JoinToken{}).
			Where("is_open = ?", true).
			Update("is_open", false).Error
	})
}

// GetBoundChat returns the chat the binding singleton points at, or nil when
// nothing has been bound yet.
func (s *Service) GetBoundChat() (*models.Chat, error) {
	var binding models.Binding
	err := s.DB.First(&binding, "id = ?", models.BindingRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chat models.Chat
	if err := s.DB.First(&chat, "chat_id = ?", binding.ChatID).Error; err != nil {
		log.Printf("ERROR: binding row points at missing chat %d: %v", binding.ChatID, err)
		return nil, err
	}
	return &chat, nil
}

// UpsertParticipant inserts the participant or, on (chat_id, user_id)
// conflict, refreshes username and full name and forces the row active.
// Re-enrollment therefore reactivates instead of duplicating.
func (s *Service) UpsertParticipant(p *models.Participant) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "full_name", "is_active"}),
	}).Create(p).Error
}

func (s *Service) GetActiveParticipant(chatID, userID int64) (*models.Participant, error) {
	var p models.Participant
	err := s.DB.Where("chat_id = ? AND user_id = ? AND is_active = ?", chatID, userID, true).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) GetActiveParticipantByUsername(chatID int64, username string) (*models.Participant, error) {
	var p models.Participant
	err := s.DB.Where("chat_id = ? AND username = ? AND is_active = ?", chatID, username, true).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActiveParticipants lists the draw-eligible participants of a chat,
// ordered the way the admin lists render them.
func (s *Service) GetActiveParticipants(chatID int64) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.DB.Where("chat_id = ? AND is_active = ?", chatID, true).
		Order("lower(coalesce(nullif(username, ''), full_name))").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// GetParticipantsMissingWishlist lists active participants whose wishlist is
// empty or blank.
func (s *Service) GetParticipantsMissingWishlist(chatID int64) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.DB.Where("chat_id = ? AND is_active = ? AND (wishlist IS NULL OR btrim(wishlist) = '')", chatID, true).
		Order("lower(coalesce(nullif(username, ''), full_name))").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// SetWishlist overwrites a single participant's wishlist; empty text clears it.
func (s *Service) SetWishlist(chatID, userID int64, text string) error {
	return s.DB.Model(&models.Participant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("wishlist", text).Error
}

// DeactivateParticipant soft-deletes: the row survives so historical pairs
// keep resolving, the user just stops being draw-eligible.
func (s *Service) DeactivateParticipant(chatID, userID int64) error {
	return s.DB.Model(&models.Participant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Update("is_active", false).Error
}

// CreateJoinToken closes the chat's open tokens and inserts the new one as a
// single transaction, preserving "at most one open token per chat" under
// concurrent admin actions.
func (s *Service) CreateJoinToken(t *models.JoinToken) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.JoinToken{}).
			Where("chat_id = ? AND is_open = ?", t.ChatID, true).
			Update("is_open", false).Error; err != nil {
			return err
		}
		return tx.Create(t).Error
	})
}

func (s *Service) GetJoinToken(token string) (*models.JoinToken, error) {
	var t models.JoinToken
	err := s.DB.First(&t, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetOpenJoinToken returns the chat's single open token, or nil when
// registration is closed.
func (s *Service) GetOpenJoinToken(chatID int64) (*models.JoinToken, error) {
	var t models.JoinToken
	err := s.DB.Where("chat_id = ? AND is_open = ?", chatID, true).
		Order("created_at desc").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Service) CloseJoinTokens(chatID int64) error {
	return s.DB.Model(&models.JoinToken{}).
		Where("chat_id = ? AND is_open = ?", chatID, true).
		Update("is_open", false).Error
}

// ReplacePairs swaps the chat's pair set for the given one as a single
// transaction, so no reader observes a half-replaced assignment.
func (s *Service) ReplacePairs(chatID int64, pairs []models.Pair) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Delete(&models.Pair{}).Error; err != nil {
			return err
		}
		if len(pairs) == 0 {
			return nil
		}
		return tx.Create(&pairs).Error
	})
}

func (s *Service) GetPairs(chatID int64) ([]models.Pair, error) {
	var pairs []models.Pair
	if err := s.DB.Where("chat_id = ?", chatID).Find(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}

func (s *Service) DeletePairs(chatID int64) error {
	return s.DB.Where("chat_id = ?", chatID).Delete(&models.Pair{}).Error
}

// ExportPairs joins the pair set with participant display data for the admin
// audit view.
func (s *Service) ExportPairs(chatID int64) ([]models.PairExport, error) {
	rawSQL := `
        SELECT pr.giver_user_id,
               g.username  AS giver_username,
               g.full_name AS giver_full_name,
               pr.receiver_user_id,
               r.username  AS receiver_username,
               r.full_name AS receiver_full_name
        FROM pairs pr
        JOIN participants g ON g.chat_id = pr.chat_id AND g.user_id = pr.giver_user_id
        JOIN participants r ON r.chat_id = pr.chat_id AND r.user_id = pr.receiver_user_id
        WHERE pr.chat_id = ?
        ORDER BY lower(coalesce(nullif(g.username, ''), g.full_name))
    `

	var exports []models.PairExport
	if err := s.DB.Raw(rawSQL, chatID).Scan(&exports).Error; err != nil {
		return nil, err
	}
	return exports, nil
}

// SaveDrawRecord appends one audit row per completed draw.
func (s *Service) SaveDrawRecord(rec *models.DrawRecord) error {
	return s.DB.Create(rec).Error
}

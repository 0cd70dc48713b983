package exchange

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"santagogo/backend/internal/config"
	"santagogo/backend/internal/models"

	"github.com/google/uuid"
)

// Storage is the persistence contract the exchange core requires. The GORM
// implementation lives in internal/storage; tests substitute a mock.
type Storage interface {
	// BindChat upserts the chat, repoints the binding singleton at it and
	// closes every open join token system-wide, in one transaction.
	BindChat(chat *models.Chat) error
	// GetBoundChat returns the currently bound chat, or nil when unbound.
	GetBoundChat() (*models.Chat, error)

	// UpsertParticipant inserts or refreshes a participant: username and
	// full name overwritten, active forced true.
	UpsertParticipant(p *models.Participant) error
	GetActiveParticipant(chatID, userID int64) (*models.Participant, error)
	GetActiveParticipantByUsername(chatID int64, username string) (*models.Participant, error)
	GetActiveParticipants(chatID int64) ([]models.Participant, error)
	GetParticipantsMissingWishlist(chatID int64) ([]models.Participant, error)
	SetWishlist(chatID, userID int64, text string) error
	DeactivateParticipant(chatID, userID int64) error

	// CreateJoinToken closes the chat's open tokens and inserts the new one
	// in one transaction.
	CreateJoinToken(t *models.JoinToken) error
	// GetJoinToken returns the token row, or nil when unknown.
	GetJoinToken(token string) (*models.JoinToken, error)
	GetOpenJoinToken(chatID int64) (*models.JoinToken, error)
	CloseJoinTokens(chatID int64) error

	// ReplacePairs atomically deletes the chat's pair set and inserts the
	// new one.
	ReplacePairs(chatID int64, pairs []models.Pair) error
	GetPairs(chatID int64) ([]models.Pair, error)
	DeletePairs(chatID int64) error
	ExportPairs(chatID int64) ([]models.PairExport, error)

	SaveDrawRecord(rec *models.DrawRecord) error

	AcquireDrawLock(ctx context.Context, chatID int64) (bool, error)
	ReleaseDrawLock(ctx context.Context, chatID int64) error
}

// Notifier delivers one assignment to a giver's private chat. A non-nil error
// is recipient-scoped: it is aggregated into the draw report, never fatal to
// the batch.
type Notifier interface {
	NotifyAssignment(giverID int64, receiverDisplay, receiverWish string) error
}

// Enrollee is the identity a token redeemer presents.
type Enrollee struct {
	UserID   int64
	Username string
	FullName string
}

// Status is the admin-facing registration summary.
type Status struct {
	ActiveCount      int
	RegistrationOpen bool
}

// DeliveryFailure records one giver the dispatcher could not reach.
type DeliveryFailure struct {
	GiverID int64
	Reason  string
}

// DrawReport summarizes a draw or resend: how many pairs were handled and
// which notifications failed.
type DrawReport struct {
	PairCount int
	Failures  []DeliveryFailure
}

// fallbackFullName substitutes for enrollees whose Telegram profile carries
// no usable name.
const fallbackFullName = "Participant"

// Service is the exchange core. Authorization (admin rights, group context)
// is the command surface's job; the service enforces chat binding, token and
// participant state.
type Service struct {
	storage  Storage
	notifier Notifier
}

// NewService creates the exchange core over the given storage and dispatcher.
func NewService(s Storage, n Notifier) *Service {
	return &Service{storage: s, notifier: n}
}

// Bind upserts the chat and makes it the bound one. Rebinding closes every
// previously open token system-wide so stale deep links cannot enroll anyone
// into an abandoned campaign.
func (s *Service) Bind(chatID int64, title string) error {
	return s.storage.BindChat(&models.Chat{ChatID: chatID, Title: title})
}

// BoundChat returns the currently bound chat, or ErrNotBound.
func (s *Service) BoundChat() (*models.Chat, error) {
	chat, err := s.storage.GetBoundChat()
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrNotBound
	}
	return chat, nil
}

// ensureBound verifies chatID is the bound chat.
func (s *Service) ensureBound(chatID int64) error {
	chat, err := s.BoundChat()
	if err != nil {
		return err
	}
	if chat.ChatID != chatID {
		return ErrWrongChat
	}
	return nil
}

// OpenRegistration issues a fresh join token for the bound chat, superseding
// any token already open, and returns it for deep-link embedding.
func (s *Service) OpenRegistration(chatID int64) (string, error) {
	if err := s.ensureBound(chatID); err != nil {
		return "", err
	}
	token := newToken()
	if err := s.storage.CreateJoinToken(&models.JoinToken{Token: token, ChatID: chatID, IsOpen: true}); err != nil {
		return "", fmt.Errorf("create join token: %w", err)
	}
	return token, nil
}

// CloseRegistration closes all open tokens of the bound chat. No-op when
// registration is already closed.
func (s *Service) CloseRegistration(chatID int64) error {
	if err := s.ensureBound(chatID); err != nil {
		return err
	}
	return s.storage.CloseJoinTokens(chatID)
}

// Redeem enrolls (or re-enrolls) the user into the token's chat. The only
// non-admin state mutation in the system. Idempotent: a known user is
// reactivated with refreshed username and name, never duplicated.
func (s *Service) Redeem(token string, user Enrollee) (*models.Chat, error) {
	bound, err := s.BoundChat()
	if err != nil {
		return nil, err
	}

	tok, err := s.storage.GetJoinToken(token)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, ErrInvalidToken
	}
	if tok.ChatID != bound.ChatID {
		return nil, ErrChatMismatch
	}
	if !tok.IsOpen {
		return nil, ErrRegistrationClosed
	}

	fullName := strings.TrimSpace(user.FullName)
	if fullName == "" {
		fullName = fallbackFullName
	}
	p := &models.Participant{
		ChatID:   tok.ChatID,
		UserID:   user.UserID,
		Username: models.NormalizeUsername(user.Username),
		FullName: fullName,
		IsActive: true,
	}
	if err := s.storage.UpsertParticipant(p); err != nil {
		return nil, fmt.Errorf("enroll participant: %w", err)
	}
	return bound, nil
}

// SetWishlist stores the caller's gift preferences. The caller must be an
// active participant of the bound chat.
func (s *Service) SetWishlist(userID int64, text string) error {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) > config.WishlistMaxLen {
		return ErrWishlistTooLong
	}
	p, err := s.activeParticipant(userID)
	if err != nil {
		return err
	}
	return s.storage.SetWishlist(p.ChatID, userID, text)
}

// ClearWishlist removes the caller's wishlist.
func (s *Service) ClearWishlist(userID int64) error {
	p, err := s.activeParticipant(userID)
	if err != nil {
		return err
	}
	return s.storage.SetWishlist(p.ChatID, userID, "")
}

// Wishlist returns the caller's current wishlist, empty when unset.
func (s *Service) Wishlist(userID int64) (string, error) {
	p, err := s.activeParticipant(userID)
	if err != nil {
		return "", err
	}
	return p.Wishlist, nil
}

func (s *Service) activeParticipant(userID int64) (*models.Participant, error) {
	bound, err := s.BoundChat()
	if err != nil {
		return nil, err
	}
	p, err := s.storage.GetActiveParticipant(bound.ChatID, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotAParticipant
	}
	return p, nil
}

// Participants lists the active participants of the bound chat.
func (s *Service) Participants(chatID int64) ([]models.Participant, error) {
	if err := s.ensureBound(chatID); err != nil {
		return nil, err
	}
	return s.storage.GetActiveParticipants(chatID)
}

// MissingWishlists lists active participants who have not written a wishlist.
func (s *Service) MissingWishlists(chatID int64) ([]models.Participant, error) {
	if err := s.ensureBound(chatID); err != nil {
		return nil, err
	}
	return s.storage.GetParticipantsMissingWishlist(chatID)
}

// RemoveParticipant deactivates a participant by handle. Pairs already
// referencing the user stay in place until the next draw.
func (s *Service) RemoveParticipant(chatID int64, username string) error {
	if err := s.ensureBound(chatID); err != nil {
		return err
	}
	p, err := s.storage.GetActiveParticipantByUsername(chatID, models.NormalizeUsername(username))
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNotAParticipant
	}
	return s.storage.DeactivateParticipant(chatID, p.UserID)
}

// Registration reports the active-participant count and whether a join token
// is currently open.
func (s *Service) Registration(chatID int64) (*Status, error) {
	if err := s.ensureBound(chatID); err != nil {
		return nil, err
	}
	participants, err := s.storage.GetActiveParticipants(chatID)
	if err != nil {
		return nil, err
	}
	tok, err := s.storage.GetOpenJoinToken(chatID)
	if err != nil {
		return nil, err
	}
	return &Status{ActiveCount: len(participants), RegistrationOpen: tok != nil}, nil
}

// Draw computes a fresh derangement over the active participants, atomically
// replaces the chat's pair set, and notifies every giver. Delivery failures
// are aggregated in the report and never roll back the persisted pairs.
// Draws for one chat are serialized through the storage lock.
func (s *Service) Draw(ctx context.Context, chatID int64) (*DrawReport, error) {
	if err := s.ensureBound(chatID); err != nil {
		return nil, err
	}

	locked, err := s.storage.AcquireDrawLock(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("acquire draw lock: %w", err)
	}
	if !locked {
		return nil, ErrDrawInProgress
	}
	defer func() {
		if err := s.storage.ReleaseDrawLock(ctx, chatID); err != nil {
			log.Printf("ERROR: failed to release draw lock for chat %d: %v", chatID, err)
		}
	}()

	participants, err := s.storage.GetActiveParticipants(chatID)
	if err != nil {
		return nil, err
	}
	if len(participants) < 3 {
		return nil, ErrInsufficientParticipants
	}

	ids := make([]int64, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
	}
	assignments, err := GenerateDerangement(ids)
	if err != nil {
		return nil, err
	}

	pairs := make([]models.Pair, len(assignments))
	for i, a := range assignments {
		pairs[i] = models.Pair{ChatID: chatID, GiverUserID: a.GiverID, ReceiverUserID: a.ReceiverID}
	}
	if err := s.storage.ReplacePairs(chatID, pairs); err != nil {
		return nil, fmt.Errorf("persist pairs: %w", err)
	}

	report := s.notifyPairs(pairs, indexByUserID(participants))

	rec := &models.DrawRecord{ChatID: chatID, ParticipantCount: len(participants)}
	for _, f := range report.Failures {
		rec.FailedRecipients = append(rec.FailedRecipients, fmt.Sprintf("%d: %s", f.GiverID, f.Reason))
	}
	if err := s.storage.SaveDrawRecord(rec); err != nil {
		log.Printf("ERROR: failed to save draw record for chat %d: %v", chatID, err)
	}

	return report, nil
}

// Resend re-delivers the persisted assignment with each receiver's latest
// wishlist, without recomputing pairs.
func (s *Service) Resend(ctx context.Context, chatID int64) (*DrawReport, error) {
	if err := s.ensureBound(chatID); err != nil {
		return nil, err
	}
	pairs, err := s.storage.GetPairs(chatID)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}
	participants, err := s.storage.GetActiveParticipants(chatID)
	if err != nil {
		return nil, err
	}
	return s.notifyPairs(pairs, indexByUserID(participants)), nil
}

// ClearPairs deletes the persisted assignment; participants are untouched.
func (s *Service) ClearPairs(chatID int64) error {
	if err := s.ensureBound(chatID); err != nil {
		return err
	}
	return s.storage.DeletePairs(chatID)
}

// Export renders the full pair list with display names for admin audit.
// Returns ErrNoPairs instead of an ambiguous empty success.
func (s *Service) Export(chatID int64) ([]models.PairExport, error) {
	if err := s.ensureBound(chatID); err != nil {
		return nil, err
	}
	exports, err := s.storage.ExportPairs(chatID)
	if err != nil {
		return nil, err
	}
	if len(exports) == 0 {
		return nil, ErrNoPairs
	}
	return exports, nil
}

// notifyPairs dispatches one private notification per pair. Each attempt is
// fault-isolated: a failed recipient is recorded and the batch continues.
func (s *Service) notifyPairs(pairs []models.Pair, byID map[int64]models.Participant) *DrawReport {
	report := &DrawReport{PairCount: len(pairs)}
	for _, pair := range pairs {
		receiver, ok := byID[pair.ReceiverUserID]
		if !ok {
			// Receiver deactivated after the draw; stale pair, report it.
			report.Failures = append(report.Failures, DeliveryFailure{
				GiverID: pair.GiverUserID,
				Reason:  "receiver is no longer an active participant",
			})
			continue
		}
		if err := s.notifier.NotifyAssignment(pair.GiverUserID, receiver.Display(), receiver.Wishlist); err != nil {
			report.Failures = append(report.Failures, DeliveryFailure{
				GiverID: pair.GiverUserID,
				Reason:  err.Error(),
			})
		}
	}
	return report
}

func indexByUserID(participants []models.Participant) map[int64]models.Participant {
	byID := make(map[int64]models.Participant, len(participants))
	for _, p := range participants {
		byID[p.UserID] = p
	}
	return byID
}

// newToken builds a short URL-safe join token from a random UUID.
func newToken() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if len(raw) > config.JoinTokenLength {
		raw = raw[:config.JoinTokenLength]
	}
	return raw
}

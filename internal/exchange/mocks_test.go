package exchange_test

import (
	"context"

	"santagogo/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the exchange.Storage interface.
// It uses testify/mock to allow flexible expectation setting in tests.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) BindChat(chat *models.Chat) error {
	args := m.Called(chat)
	return args.Error(0)
}

func (m *MockStorage) GetBoundChat() (*models.Chat, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Chat), args.Error(1)
}

func (m *MockStorage) UpsertParticipant(p *models.Participant) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockStorage) GetActiveParticipant(chatID, userID int64) (*models.Participant, error) {
	args := m.Called(chatID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockStorage) GetActiveParticipantByUsername(chatID int64, username string) (*models.Participant, error) {
	args := m.Called(chatID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockStorage) GetActiveParticipants(chatID int64) ([]models.Participant, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockStorage) GetParticipantsMissingWishlist(chatID int64) ([]models.Participant, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockStorage) SetWishlist(chatID, userID int64, text string) error {
	args := m.Called(chatID, userID, text)
	return args.Error(0)
}

func (m *MockStorage) DeactivateParticipant(chatID, userID int64) error {
	args := m.Called(chatID, userID)
	return args.Error(0)
}

func (m *MockStorage) CreateJoinToken(t *models.JoinToken) error {
	args := m.Called(t)
	return args.Error(0)
}

func (m *MockStorage) GetJoinToken(token string) (*models.JoinToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JoinToken), args.Error(1)
}

func (m *MockStorage) GetOpenJoinToken(chatID int64) (*models.JoinToken, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JoinToken), args.Error(1)
}

func (m *MockStorage) CloseJoinTokens(chatID int64) error {
	args := m.Called(chatID)
	return args.Error(0)
}

func (m *MockStorage) ReplacePairs(chatID int64, pairs []models.Pair) error {
	args := m.Called(chatID, pairs)
	return args.Error(0)
}

func (m *MockStorage) GetPairs(chatID int64) ([]models.Pair, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Pair), args.Error(1)
}

func (m *MockStorage) DeletePairs(chatID int64) error {
	args := m.Called(chatID)
	return args.Error(0)
}

func (m *MockStorage) ExportPairs(chatID int64) ([]models.PairExport, error) {
	args := m.Called(chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PairExport), args.Error(1)
}

func (m *MockStorage) SaveDrawRecord(rec *models.DrawRecord) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *MockStorage) AcquireDrawLock(ctx context.Context, chatID int64) (bool, error) {
	args := m.Called(ctx, chatID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) ReleaseDrawLock(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

// MockNotifier is a mock implementation of the exchange.Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyAssignment(giverID int64, receiverDisplay, receiverWish string) error {
	args := m.Called(giverID, receiverDisplay, receiverWish)
	return args.Error(0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type HotelAPI struct {
	mock.Mock
}

func (m *HotelAPI) GetRooms(ctx context.Context) ([]models.RoomSnapshot, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.RoomSnapshot), args.Error(1)
}

func (m *HotelAPI) GetChatMessages(ctx context.Context, chatID, sinceID int64, limit int) ([]models.ChatMessage, error) {
	args := m.Called(ctx, chatID, sinceID, limit)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *HotelAPI) SendEmployeeMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

type TelegramClient struct {
	mock.Mock
}

func (m *TelegramClient) CreateTopic(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TelegramClient) DeleteTopic(ctx context.Context, topicID int64) error {
	args := m.Called(ctx, topicID)
	return args.Error(0)
}

func (m *TelegramClient) SendTopicMessage(ctx context.Context, topicID int64, text string) error {
	args := m.Called(ctx, topicID, text)
	return args.Error(0)
}

type ClaimService struct {
	mock.Mock
}

func (m *ClaimService) EnsureOwnership(ctx context.Context, chatID, employeeID int64) error {
	args := m.Called(ctx, chatID, employeeID)
	return args.Error(0)
}

func (m *ClaimService) ReopenOnGuestMessage(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

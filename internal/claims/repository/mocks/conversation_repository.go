package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type ConversationRepository struct {
	mock.Mock
}

func (m *ConversationRepository) Find(ctx context.Context, chatID int64) (*models.Conversation, error) {
	args := m.Called(ctx, chatID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *ConversationRepository) Ensure(ctx context.Context, chatID int64, chatType models.ChatType) error {
	args := m.Called(ctx, chatID, chatType)
	return args.Error(0)
}

func (m *ConversationRepository) Claim(ctx context.Context, chatID, employeeID int64) error {
	args := m.Called(ctx, chatID, employeeID)
	return args.Error(0)
}

func (m *ConversationRepository) Reopen(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

func (m *ConversationRepository) Close(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

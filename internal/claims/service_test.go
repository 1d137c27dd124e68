package claims_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-hotel-sync/internal/claims"
	"github.com/central-university-dev/go-hotel-sync/internal/claims/repository/mocks"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestEnsureOwnership_OpenConversationClaimed(t *testing.T) {
	repo := new(mocks.ConversationRepository)
	service := claims.NewService(repo, newTestLogger())

	repo.On("Ensure", mock.Anything, int64(100), models.ChatReception).Return(nil)
	repo.On("Find", mock.Anything, int64(100)).Return(&models.Conversation{
		ChatID: 100,
		Type:   models.ChatReception,
		Status: models.ConversationOpen,
	}, nil)
	repo.On("Claim", mock.Anything, int64(100), int64(7)).Return(nil)

	err := service.EnsureOwnership(context.Background(), 100, 7)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestEnsureOwnership_OwnClaimPasses(t *testing.T) {
	repo := new(mocks.ConversationRepository)
	service := claims.NewService(repo, newTestLogger())

	repo.On("Ensure", mock.Anything, int64(100), models.ChatReception).Return(nil)
	repo.On("Find", mock.Anything, int64(100)).Return(&models.Conversation{
		ChatID:             100,
		Type:               models.ChatReception,
		Status:             models.ConversationClaimed,
		AssignedEmployeeID: 7,
	}, nil)

	err := service.EnsureOwnership(context.Background(), 100, 7)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Claim", mock.Anything, int64(100), int64(7))
}

func TestEnsureOwnership_ForeignClaimRejected(t *testing.T) {
	repo := new(mocks.ConversationRepository)
	service := claims.NewService(repo, newTestLogger())

	repo.On("Ensure", mock.Anything, int64(100), models.ChatReception).Return(nil)
	repo.On("Find", mock.Anything, int64(100)).Return(&models.Conversation{
		ChatID:             100,
		Type:               models.ChatReception,
		Status:             models.ConversationClaimed,
		AssignedEmployeeID: 8,
	}, nil)

	err := service.EnsureOwnership(context.Background(), 100, 7)

	require.Error(t, err)
	assert.True(t, errors.Is(err, &customerrors.ErrAlreadyClaimed{}))
}

func TestClaim_LoserGetsConflict(t *testing.T) {
	repo := new(mocks.ConversationRepository)
	service := claims.NewService(repo, newTestLogger())

	repo.On("Claim", mock.Anything, int64(100), int64(7)).
		Return(&customerrors.ErrAlreadyClaimed{ChatID: 100})

	err := service.Claim(context.Background(), 100, 7)

	require.Error(t, err)
	assert.True(t, errors.Is(err, &customerrors.ErrAlreadyClaimed{}))
}

func TestReopenOnGuestMessage_ClaimedConversationReopened(t *testing.T) {
	repo := new(mocks.ConversationRepository)
	service := claims.NewService(repo, newTestLogger())

	repo.On("Ensure", mock.Anything, int64(100), models.ChatReception).Return(nil)
	repo.On("Find", mock.Anything, int64(100)).Return(&models.Conversation{
		ChatID:             100,
		Type:               models.ChatReception,
		Status:             models.ConversationClaimed,
		AssignedEmployeeID: 7,
	}, nil)
	repo.On("Reopen", mock.Anything, int64(100)).Return(nil)

	err := service.ReopenOnGuestMessage(context.Background(), 100)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestReopenOnGuestMessage_OpenConversationUntouched(t *testing.T) {
	repo := new(mocks.ConversationRepository)
	service := claims.NewService(repo, newTestLogger())

	repo.On("Ensure", mock.Anything, int64(100), models.ChatReception).Return(nil)
	repo.On("Find", mock.Anything, int64(100)).Return(&models.Conversation{
		ChatID: 100,
		Type:   models.ChatReception,
		Status: models.ConversationOpen,
	}, nil)

	err := service.ReopenOnGuestMessage(context.Background(), 100)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Reopen", mock.Anything, int64(100))
}

func TestReopenOnGuestMessage_AIChatIgnored(t *testing.T) {
	repo := new(mocks.ConversationRepository)
	service := claims.NewService(repo, newTestLogger())

	repo.On("Ensure", mock.Anything, int64(200), models.ChatReception).Return(nil)
	repo.On("Find", mock.Anything, int64(200)).Return(&models.Conversation{
		ChatID: 200,
		Type:   models.ChatAI,
		Status: models.ConversationClaimed,
	}, nil)

	err := service.ReopenOnGuestMessage(context.Background(), 200)

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Reopen", mock.Anything, int64(200))
}

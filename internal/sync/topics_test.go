package sync_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	syncservice "github.com/central-university-dev/go-hotel-sync/internal/sync"
	"github.com/central-university-dev/go-hotel-sync/internal/sync/mocks"
	"github.com/central-university-dev/go-hotel-sync/internal/sync/repository/memory"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestEnsureTopic_CreatesWhenMissing(t *testing.T) {
	telegram := new(mocks.TelegramClient)
	topics := memory.NewTopicRepository()
	manager := syncservice.NewTopicManager(telegram, topics, newTestLogger())

	telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(500), nil)

	topicID, err := manager.EnsureTopic(context.Background(), "101")

	require.NoError(t, err)
	assert.Equal(t, int64(500), topicID)

	saved, err := topics.Get(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, int64(500), saved)
}

func TestEnsureTopic_ReturnsExisting(t *testing.T) {
	telegram := new(mocks.TelegramClient)
	topics := memory.NewTopicRepository()
	manager := syncservice.NewTopicManager(telegram, topics, newTestLogger())

	require.NoError(t, topics.Save(context.Background(), "101", 500))

	topicID, err := manager.EnsureTopic(context.Background(), "101")

	require.NoError(t, err)
	assert.Equal(t, int64(500), topicID)
	telegram.AssertNotCalled(t, "CreateTopic", mock.Anything, mock.Anything)
}

func TestRecreateTopic_DeleteFailureDoesNotBlock(t *testing.T) {
	telegram := new(mocks.TelegramClient)
	topics := memory.NewTopicRepository()
	manager := syncservice.NewTopicManager(telegram, topics, newTestLogger())

	require.NoError(t, topics.Save(context.Background(), "101", 500))

	telegram.On("DeleteTopic", mock.Anything, int64(500)).Return(assert.AnError)
	telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(501), nil)

	topicID, err := manager.RecreateTopic(context.Background(), "101")

	require.NoError(t, err)
	assert.Equal(t, int64(501), topicID)

	saved, err := topics.Get(context.Background(), "101")
	require.NoError(t, err)
	assert.Equal(t, int64(501), saved)
}

func TestCreateTopic_RetryAfterWaitsExactly(t *testing.T) {
	telegram := new(mocks.TelegramClient)
	topics := memory.NewTopicRepository()
	manager := syncservice.NewTopicManager(telegram, topics, newTestLogger())

	var waits []time.Duration

	manager.SetSleep(func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	})

	telegram.On("CreateTopic", mock.Anything, "Комната 101").
		Return(int64(0), &customerrors.ErrRetryAfter{Wait: 7 * time.Second}).Once()
	telegram.On("CreateTopic", mock.Anything, "Комната 101").
		Return(int64(0), &customerrors.ErrRetryAfter{Wait: 3 * time.Second}).Once()
	telegram.On("CreateTopic", mock.Anything, "Комната 101").
		Return(int64(500), nil).Once()

	topicID, err := manager.EnsureTopic(context.Background(), "101")

	require.NoError(t, err)
	assert.Equal(t, int64(500), topicID)
	assert.Equal(t, []time.Duration{7 * time.Second, 3 * time.Second}, waits)
}

func TestCreateTopic_OtherErrorAborts(t *testing.T) {
	telegram := new(mocks.TelegramClient)
	topics := memory.NewTopicRepository()
	manager := syncservice.NewTopicManager(telegram, topics, newTestLogger())

	telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(0), assert.AnError)

	_, err := manager.EnsureTopic(context.Background(), "101")

	require.Error(t, err)
}

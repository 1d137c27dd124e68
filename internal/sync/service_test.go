package sync_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
	syncservice "github.com/central-university-dev/go-hotel-sync/internal/sync"
	"github.com/central-university-dev/go-hotel-sync/internal/sync/mocks"
	"github.com/central-university-dev/go-hotel-sync/internal/sync/repository/memory"
)

type serviceFixture struct {
	service  *syncservice.Service
	hotelAPI *mocks.HotelAPI
	telegram *mocks.TelegramClient
	claims   *mocks.ClaimService
	state    *syncservice.StateStore
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	hotelAPI := new(mocks.HotelAPI)
	telegram := new(mocks.TelegramClient)
	claims := new(mocks.ClaimService)
	logger := newTestLogger()

	topics := syncservice.NewTopicManager(telegram, memory.NewTopicRepository(), logger)
	relay := syncservice.NewRelay(hotelAPI, telegram, memory.NewWatermarkRepository(), claims, 20, logger)
	state := syncservice.NewStateStore()

	service := syncservice.NewService(hotelAPI, telegram, topics, relay, state, claims, nil, logger)

	return &serviceFixture{
		service:  service,
		hotelAPI: hotelAPI,
		telegram: telegram,
		claims:   claims,
		state:    state,
	}
}

func TestSyncState_FirstPollSeedsWithoutAnnouncements(t *testing.T) {
	f := newServiceFixture(t)

	f.hotelAPI.On("GetRooms", mock.Anything).Return([]models.RoomSnapshot{
		{RoomNumber: "101", Status: models.RoomOccupied, GuestName: "Иванов", ChatID: 42, HasChat: true},
		{RoomNumber: "102", Status: models.RoomAvailable},
	}, nil)
	f.telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(500), nil)
	f.telegram.On("CreateTopic", mock.Anything, "Комната 102").Return(int64(501), nil)
	f.hotelAPI.On("GetChatMessages", mock.Anything, int64(42), int64(0), 20).Return([]models.ChatMessage{}, nil)

	err := f.service.SyncState(context.Background())

	require.NoError(t, err)
	f.telegram.AssertNotCalled(t, "SendTopicMessage", mock.Anything, mock.Anything, mock.Anything)

	snapshot, known := f.state.Previous("101")
	require.True(t, known)
	assert.Equal(t, models.RoomOccupied, snapshot.Status)
}

func TestSyncState_OccupancyAnnouncedWithoutRecreation(t *testing.T) {
	f := newServiceFixture(t)

	f.state.Replace(models.RoomSnapshot{RoomNumber: "101", Status: models.RoomAvailable})

	f.hotelAPI.On("GetRooms", mock.Anything).Return([]models.RoomSnapshot{
		{RoomNumber: "101", Status: models.RoomOccupied, GuestName: "Петров Петр", ChatID: 42, HasChat: true},
	}, nil)
	f.telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(500), nil)
	f.telegram.On("SendTopicMessage", mock.Anything, int64(500),
		"👤 Комната 101 занята.\n<b>Гость:</b> Петров Петр").Return(nil)
	f.hotelAPI.On("GetChatMessages", mock.Anything, int64(42), int64(0), 20).Return([]models.ChatMessage{}, nil)

	err := f.service.SyncState(context.Background())

	require.NoError(t, err)
	f.telegram.AssertExpectations(t)
	f.telegram.AssertNotCalled(t, "DeleteTopic", mock.Anything, mock.Anything)
}

func TestSyncState_VacancyRecreatesTopic(t *testing.T) {
	f := newServiceFixture(t)

	f.state.Replace(models.RoomSnapshot{
		RoomNumber: "101",
		Status:     models.RoomOccupied,
		GuestName:  "Иванов",
		ChatID:     42,
		HasChat:    true,
	})

	f.hotelAPI.On("GetRooms", mock.Anything).Return([]models.RoomSnapshot{
		{RoomNumber: "101", Status: models.RoomAvailable},
	}, nil)
	// Первый вызов создает недостающий топик, второй — замену после выезда.
	f.telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(500), nil).Once()
	f.telegram.On("DeleteTopic", mock.Anything, int64(500)).Return(nil)
	f.telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(501), nil).Once()
	f.telegram.On("SendTopicMessage", mock.Anything, int64(501), "✅ Комната 101 свободна").Return(nil)

	err := f.service.SyncState(context.Background())

	require.NoError(t, err)
	f.telegram.AssertExpectations(t)

	snapshot, known := f.state.Previous("101")
	require.True(t, known)
	assert.Equal(t, models.RoomAvailable, snapshot.Status)
}

func TestSyncState_UnchangedStatusAnnouncesNothing(t *testing.T) {
	f := newServiceFixture(t)

	f.state.Replace(models.RoomSnapshot{RoomNumber: "101", Status: models.RoomAvailable})

	f.hotelAPI.On("GetRooms", mock.Anything).Return([]models.RoomSnapshot{
		{RoomNumber: "101", Status: models.RoomAvailable},
	}, nil)
	f.telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(500), nil)

	err := f.service.SyncState(context.Background())

	require.NoError(t, err)
	f.telegram.AssertNotCalled(t, "SendTopicMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncState_RoomsFetchFailureSkipsCycle(t *testing.T) {
	f := newServiceFixture(t)

	f.hotelAPI.On("GetRooms", mock.Anything).Return(nil, assert.AnError)

	err := f.service.SyncState(context.Background())

	require.Error(t, err)
	f.telegram.AssertNotCalled(t, "CreateTopic", mock.Anything, mock.Anything)
}

func TestProcessEmployeeReply_DeliveredToGuest(t *testing.T) {
	f := newServiceFixture(t)

	seedRoomWithTopic(t, f, 500)

	f.claims.On("EnsureOwnership", mock.Anything, int64(42), int64(7)).Return(nil)
	f.hotelAPI.On("SendEmployeeMessage", mock.Anything, int64(42), "Сейчас принесем").Return(nil)

	response, err := f.service.ProcessEmployeeReply(context.Background(), 500, 7, "Сейчас принесем")

	require.NoError(t, err)
	assert.Equal(t, "✅ Сообщение отправлено гостю", response)
}

func TestProcessEmployeeReply_UnknownTopicIgnored(t *testing.T) {
	f := newServiceFixture(t)

	response, err := f.service.ProcessEmployeeReply(context.Background(), 999, 7, "текст")

	require.Error(t, err)
	assert.Empty(t, response)
}

func TestProcessEmployeeReply_VacantRoomRejected(t *testing.T) {
	f := newServiceFixture(t)

	f.hotelAPI.On("GetRooms", mock.Anything).Return([]models.RoomSnapshot{
		{RoomNumber: "101", Status: models.RoomAvailable},
	}, nil)
	f.telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(int64(500), nil)
	require.NoError(t, f.service.SyncState(context.Background()))

	response, err := f.service.ProcessEmployeeReply(context.Background(), 500, 7, "текст")

	require.Error(t, err)
	assert.True(t, errors.Is(err, &customerrors.ErrRoomNotOccupied{}))
	assert.Contains(t, response, "нет гостя")
	f.hotelAPI.AssertNotCalled(t, "SendEmployeeMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessEmployeeReply_ForeignClaimRejected(t *testing.T) {
	f := newServiceFixture(t)

	seedRoomWithTopic(t, f, 500)

	f.claims.On("EnsureOwnership", mock.Anything, int64(42), int64(7)).
		Return(&customerrors.ErrAlreadyClaimed{ChatID: 42})

	response, err := f.service.ProcessEmployeeReply(context.Background(), 500, 7, "текст")

	require.Error(t, err)
	assert.Contains(t, response, "уже взят")
	f.hotelAPI.AssertNotCalled(t, "SendEmployeeMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessEmployeeReply_SendFailureReported(t *testing.T) {
	f := newServiceFixture(t)

	seedRoomWithTopic(t, f, 500)

	f.claims.On("EnsureOwnership", mock.Anything, int64(42), int64(7)).Return(nil)
	f.hotelAPI.On("SendEmployeeMessage", mock.Anything, int64(42), "текст").Return(assert.AnError)

	response, err := f.service.ProcessEmployeeReply(context.Background(), 500, 7, "текст")

	require.Error(t, err)
	assert.Contains(t, response, "ошибка при отправке")
}

// seedRoomWithTopic прогоняет один цикл синхронизации, чтобы комната 101
// с гостем и чатом 42 оказалась в состоянии и получила топик.
func seedRoomWithTopic(t *testing.T, f *serviceFixture, topicID int64) {
	t.Helper()

	f.hotelAPI.On("GetRooms", mock.Anything).Return([]models.RoomSnapshot{
		{RoomNumber: "101", Status: models.RoomOccupied, GuestName: "Иванов", ChatID: 42, HasChat: true},
	}, nil).Once()
	f.telegram.On("CreateTopic", mock.Anything, "Комната 101").Return(topicID, nil).Once()
	f.hotelAPI.On("GetChatMessages", mock.Anything, int64(42), int64(0), 20).Return([]models.ChatMessage{}, nil).Once()

	require.NoError(t, f.service.SyncState(context.Background()))
}

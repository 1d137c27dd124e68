package checkout_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-hotel-sync/internal/checkout"
	"github.com/central-university-dev/go-hotel-sync/internal/checkout/flags"
	"github.com/central-university-dev/go-hotel-sync/internal/checkout/mocks"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(t *testing.T, now time.Time) (*checkout.Service, *mocks.HotelAPI, *mocks.Announcer, flags.FlagStore) {
	t.Helper()

	location, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	hotelAPI := new(mocks.HotelAPI)
	announcer := new(mocks.Announcer)
	flagStore := flags.NewMemoryFlagStore()

	service := checkout.NewService(hotelAPI, announcer, flagStore, nil, location, newTestLogger())
	service.SetClock(func() time.Time { return now })

	return service, hotelAPI, announcer, flagStore
}

func TestRunSweep_OverdueBookingCompleted(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	service, hotelAPI, announcer, _ := newTestService(t, now)

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 10, Status: models.BookingActive, GuestLastName: "Иванов", CheckOutRaw: "2025-06-01T12:00:00"},
	}, nil)
	hotelAPI.On("CompleteBooking", mock.Anything, int64(10)).Return(nil)
	announcer.On("SendTopicMessage", mock.Anything, int64(0), mock.MatchedBy(func(text string) bool {
		return len(text) > 0
	})).Return(nil)

	err := service.RunSweep(context.Background())

	require.NoError(t, err)
	hotelAPI.AssertExpectations(t)
	announcer.AssertExpectations(t)
}

func TestRunSweep_TerminalStatusesSkipped(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	service, hotelAPI, announcer, _ := newTestService(t, now)

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 11, Status: models.BookingCompleted, CheckOutRaw: "2025-06-01T12:00:00"},
		{ID: 12, Status: models.BookingCancelled, CheckOutRaw: "2025-06-01T12:00:00"},
	}, nil)

	err := service.RunSweep(context.Background())

	require.NoError(t, err)
	hotelAPI.AssertNotCalled(t, "CompleteBooking", mock.Anything, mock.Anything)
	announcer.AssertNotCalled(t, "SendTopicMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSweep_MalformedDateSkipsBooking(t *testing.T) {
	now := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	service, hotelAPI, announcer, _ := newTestService(t, now)

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 13, Status: models.BookingActive, CheckOutRaw: "не дата"},
	}, nil)

	err := service.RunSweep(context.Background())

	require.NoError(t, err)
	hotelAPI.AssertNotCalled(t, "CompleteBooking", mock.Anything, mock.Anything)
	announcer.AssertNotCalled(t, "SendTopicMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSweep_NearestTierFires(t *testing.T) {
	location, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	// До выезда 25 минут: покрывают все уровни, сработать должен ближайший — 30m.
	checkOut := time.Date(2025, 6, 1, 12, 0, 0, 0, location)
	now := checkOut.Add(-25 * time.Minute)

	service, hotelAPI, announcer, flagStore := newTestService(t, now)

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 14, Status: models.BookingConfirmed, GuestLastName: "Петров", CheckOutRaw: "2025-06-01T12:00:00"},
	}, nil)
	announcer.On("SendTopicMessage", mock.Anything, int64(0), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "(30m)")
	})).Return(nil).Once()

	require.NoError(t, service.RunSweep(context.Background()))

	announcer.AssertExpectations(t)

	sent, err := flagStore.IsSent(context.Background(), 14, models.NotificationTiers[3])
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = flagStore.IsSent(context.Background(), 14, models.NotificationTiers[0])
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestRunSweep_SentTierDoesNotEscalate(t *testing.T) {
	location, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	// Уровень 30m уже отправлен; при оставшихся 20 минутах более дальние
	// уровни срабатывать не должны.
	checkOut := time.Date(2025, 6, 1, 12, 0, 0, 0, location)
	now := checkOut.Add(-20 * time.Minute)

	service, hotelAPI, announcer, flagStore := newTestService(t, now)

	require.NoError(t, flagStore.MarkSent(context.Background(), 15, models.NotificationTiers[3]))

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 15, Status: models.BookingActive, GuestLastName: "Сидоров", CheckOutRaw: "2025-06-01T12:00:00"},
	}, nil)

	require.NoError(t, service.RunSweep(context.Background()))

	announcer.AssertNotCalled(t, "SendTopicMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunSweep_TiersFireInSequenceAsCheckoutNears(t *testing.T) {
	location, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	checkOut := time.Date(2025, 6, 1, 12, 0, 0, 0, location)
	now := checkOut.Add(-170 * time.Minute)

	service, hotelAPI, announcer, flagStore := newTestService(t, now)

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 18, Status: models.BookingActive, GuestLastName: "Смирнов", CheckOutRaw: "2025-06-01T12:00:00"},
	}, nil)
	announcer.On("SendTopicMessage", mock.Anything, int64(0), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "(3h)")
	})).Return(nil).Once()
	announcer.On("SendTopicMessage", mock.Anything, int64(0), mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "(2h)")
	})).Return(nil).Once()

	// 170 минут до выезда: покрывает только 3h.
	require.NoError(t, service.RunSweep(context.Background()))

	// 110 минут до выезда: ближайший уровень теперь 2h.
	service.SetClock(func() time.Time { return checkOut.Add(-110 * time.Minute) })
	require.NoError(t, service.RunSweep(context.Background()))

	// Повтор без изменения времени ничего не добавляет.
	require.NoError(t, service.RunSweep(context.Background()))

	announcer.AssertExpectations(t)

	sent, err := flagStore.IsSent(context.Background(), 18, models.NotificationTiers[1])
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestRunSweep_FlagSetBeforeSendAttempt(t *testing.T) {
	location, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	checkOut := time.Date(2025, 6, 1, 12, 0, 0, 0, location)
	now := checkOut.Add(-50 * time.Minute)

	service, hotelAPI, announcer, flagStore := newTestService(t, now)

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 16, Status: models.BookingActive, CheckOutRaw: "2025-06-01T12:00:00"},
	}, nil)
	announcer.On("SendTopicMessage", mock.Anything, int64(0), mock.Anything).
		Return(assert.AnError)

	require.NoError(t, service.RunSweep(context.Background()))

	// Флаг остается даже при сбое отправки: повторов не будет.
	sent, err := flagStore.IsSent(context.Background(), 16, models.NotificationTiers[2])
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestRunSweep_NotDueYet(t *testing.T) {
	location, err := time.LoadLocation("Asia/Tashkent")
	require.NoError(t, err)

	checkOut := time.Date(2025, 6, 1, 12, 0, 0, 0, location)
	now := checkOut.Add(-5 * time.Hour)

	service, hotelAPI, announcer, _ := newTestService(t, now)

	hotelAPI.On("GetBookings", mock.Anything).Return([]models.Booking{
		{ID: 17, Status: models.BookingActive, CheckOutRaw: "2025-06-01T12:00:00"},
	}, nil)

	require.NoError(t, service.RunSweep(context.Background()))

	announcer.AssertNotCalled(t, "SendTopicMessage", mock.Anything, mock.Anything, mock.Anything)
}

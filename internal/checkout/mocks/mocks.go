package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type HotelAPI struct {
	mock.Mock
}

func (m *HotelAPI) GetBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *HotelAPI) CompleteBooking(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

type Announcer struct {
	mock.Mock
}

func (m *Announcer) SendTopicMessage(ctx context.Context, topicID int64, text string) error {
	args := m.Called(ctx, topicID, text)
	return args.Error(0)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, event *models.HotelEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

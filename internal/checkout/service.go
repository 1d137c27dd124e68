package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/central-university-dev/go-hotel-sync/internal/checkout/flags"
	"github.com/central-university-dev/go-hotel-sync/internal/common/metrics"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type HotelAPI interface {
	GetBookings(ctx context.Context) ([]models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID int64) error
}

type Announcer interface {
	SendTopicMessage(ctx context.Context, topicID int64, text string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event *models.HotelEvent) error
}

// Service выполняет периодический обход бронирований: просроченные выселяет
// через API отеля, приближающимся к выезду шлет предупреждения по уровням.
type Service struct {
	hotelAPI  HotelAPI
	announcer Announcer
	flagStore flags.FlagStore
	events    EventPublisher
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

func NewService(
	hotelAPI HotelAPI,
	announcer Announcer,
	flagStore flags.FlagStore,
	events EventPublisher,
	location *time.Location,
	logger *slog.Logger,
) *Service {
	return &Service{
		hotelAPI:  hotelAPI,
		announcer: announcer,
		flagStore: flagStore,
		events:    events,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

// SetClock подменяет источник времени в тестах.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RunSweep обходит все бронирования за один проход. Ошибка по одному
// бронированию не прерывает обход остальных.
func (s *Service) RunSweep(ctx context.Context) error {
	s.logger.Info("Запуск задачи автоматического выселения")

	bookings, err := s.hotelAPI.GetBookings(ctx)
	if err != nil {
		metrics.RecordCheckoutSweep(err)
		return fmt.Errorf("ошибка при получении списка бронирований: %w", err)
	}

	now := s.now().In(s.location)

	for i := range bookings {
		booking := &bookings[i]

		if booking.Status != models.BookingActive && booking.Status != models.BookingConfirmed {
			continue
		}

		checkOut, err := s.parseCheckOut(booking.ID, booking.CheckOutRaw)
		if err != nil {
			s.logger.Error("Не удалось обработать дату выезда",
				"error", err,
				"bookingID", booking.ID,
				"checkOutDate", booking.CheckOutRaw,
			)

			continue
		}

		if !checkOut.After(now) {
			s.processOverdue(ctx, booking)
			continue
		}

		s.processTiers(ctx, booking, checkOut.Sub(now))
	}

	metrics.RecordCheckoutSweep(nil)

	return nil
}

// parseCheckOut разбирает дату выезда. API отдает наивную метку времени,
// она привязывается к часовому поясу отеля.
func (s *Service) parseCheckOut(bookingID int64, raw string) (time.Time, error) {
	var lastErr error

	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		t, err := time.ParseInLocation(layout, raw, s.location)
		if err == nil {
			return t, nil
		}

		lastErr = err
	}

	return time.Time{}, &customerrors.ErrInvalidCheckOutDate{BookingID: bookingID, Value: raw, Cause: lastErr}
}

func (s *Service) processOverdue(ctx context.Context, booking *models.Booking) {
	s.logger.Info("Найдено просроченное бронирование, запуск выселения",
		"bookingID", booking.ID,
	)

	if err := s.hotelAPI.CompleteBooking(ctx, booking.ID); err != nil {
		s.logger.Error("Ошибка при завершении бронирования",
			"error", err,
			"bookingID", booking.ID,
		)

		return
	}

	metrics.AutoCheckoutsTotal.Inc()

	guestName := booking.GuestLastName
	if guestName == "" {
		guestName = "Гость"
	}

	text := fmt.Sprintf("✅ <b>Автоматическое выселение</b>\nГость: %s\nБронь ID: %d", guestName, booking.ID)
	if err := s.announcer.SendTopicMessage(ctx, 0, text); err != nil {
		s.logger.Error("Ошибка при отправке уведомления о выселении",
			"error", err,
			"bookingID", booking.ID,
		)
	}

	s.publishEvent(ctx, &models.HotelEvent{
		Type:      models.EventAutoCheckout,
		BookingID: booking.ID,
		GuestName: guestName,
	})
}

// processTiers срабатывает максимум по одному уровню за проход: выбирается
// ближайший к выезду уровень, покрывающий оставшееся время. Более дальние
// уровни при этом сгорают, чтобы задержавшийся планировщик не выдал пачку
// напоминаний разом. Флаг ставится до попытки отправки: потерять уведомление
// лучше, чем задублировать его.
func (s *Service) processTiers(ctx context.Context, booking *models.Booking, timeLeft time.Duration) {
	var tier models.NotificationTier

	found := false

	// Уровни отсортированы по убыванию срока, последний подходящий — самый близкий.
	for _, t := range models.NotificationTiers {
		if timeLeft <= t.Duration {
			tier = t
			found = true
		}
	}

	if !found {
		return
	}

	sent, err := s.flagStore.IsSent(ctx, booking.ID, tier)
	if err != nil {
		s.logger.Error("Ошибка при проверке флага уведомления",
			"error", err,
			"bookingID", booking.ID,
			"tier", tier.Name,
		)

		return
	}

	if sent {
		return
	}

	if err := s.flagStore.MarkSent(ctx, booking.ID, tier); err != nil {
		s.logger.Error("Ошибка при сохранении флага уведомления",
			"error", err,
			"bookingID", booking.ID,
			"tier", tier.Name,
		)

		return
	}

	guestName := booking.GuestLastName
	if guestName == "" {
		guestName = "Гость"
	}

	text := fmt.Sprintf("⏳ <b>Скоро выселение (%s)</b>\nГость: %s\nБронь ID: %d", tier.Name, guestName, booking.ID)
	if err := s.announcer.SendTopicMessage(ctx, 0, text); err != nil {
		s.logger.Error("Ошибка при отправке уведомления о скором выселении",
			"error", err,
			"bookingID", booking.ID,
			"tier", tier.Name,
		)

		return
	}

	metrics.NotificationsSentTotal.WithLabelValues(tier.Name).Inc()

	s.publishEvent(ctx, &models.HotelEvent{
		Type:      models.EventCheckoutReminder,
		BookingID: booking.ID,
		GuestName: guestName,
		Tier:      tier.Name,
	})
}

func (s *Service) publishEvent(ctx context.Context, event *models.HotelEvent) {
	if s.events == nil {
		return
	}

	event.OccurredAt = s.now()

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Ошибка при публикации события",
			"error", err,
			"type", string(event.Type),
		)
	}
}

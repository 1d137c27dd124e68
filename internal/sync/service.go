package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/central-university-dev/go-hotel-sync/internal/common/metrics"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// Service — главный цикл синхронизации: опрашивает API отеля, сверяет
// состояние комнат с прошлым опросом, объявляет переходы в топиках и
// ретранслирует сообщения гостей.
type Service struct {
	hotelAPI HotelAPI
	telegram TelegramClient
	topics   *TopicManager
	relay    *Relay
	state    *StateStore
	claims   ClaimService
	events   EventPublisher
	logger   *slog.Logger
}

func NewService(
	hotelAPI HotelAPI,
	telegram TelegramClient,
	topics *TopicManager,
	relay *Relay,
	state *StateStore,
	claims ClaimService,
	events EventPublisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		hotelAPI: hotelAPI,
		telegram: telegram,
		topics:   topics,
		relay:    relay,
		state:    state,
		claims:   claims,
		events:   events,
		logger:   logger,
	}
}

// SyncState выполняет один цикл синхронизации. Ошибка по одной комнате не
// прерывает обработку остальных; ошибка получения списка комнат пропускает
// цикл целиком.
func (s *Service) SyncState(ctx context.Context) error {
	started := time.Now()

	s.logger.Debug("Запущена синхронизация состояния отеля")

	rooms, err := s.hotelAPI.GetRooms(ctx)
	if err != nil {
		metrics.RecordSyncTick(err, time.Since(started))
		return fmt.Errorf("не удалось получить данные о комнатах: %w", err)
	}

	// Первый успешный опрос только заполняет состояние: объявлять переходы
	// не с чем, а занятые до рестарта комнаты не считаются новыми заездами.
	seeded := s.state.Seeded()

	occupied := 0

	for _, room := range rooms {
		if room.Occupied() {
			occupied++
		}

		if err := s.syncRoom(ctx, room, seeded); err != nil {
			s.logger.Error("Ошибка при синхронизации комнаты",
				"error", err,
				"roomNumber", room.RoomNumber,
			)
		}
	}

	metrics.OccupiedRooms.Set(float64(occupied))
	metrics.RecordSyncTick(nil, time.Since(started))

	return nil
}

func (s *Service) syncRoom(ctx context.Context, room models.RoomSnapshot, seeded bool) error {
	topicID, err := s.topics.EnsureTopic(ctx, room.RoomNumber)
	if err != nil {
		return err
	}

	previous, known := s.state.Previous(room.RoomNumber)

	if seeded && (!known || previous.Status != room.Status) {
		topicID, err = s.announceTransition(ctx, room, previous, known, topicID)
		if err != nil {
			return err
		}
	}

	if room.Occupied() {
		if err := s.relay.RelayRoom(ctx, room, topicID); err != nil {
			s.logger.Error("Ошибка при ретрансляции сообщений комнаты",
				"error", err,
				"roomNumber", room.RoomNumber,
			)
		}
	}

	s.state.Replace(room)

	return nil
}

// announceTransition объявляет смену статуса комнаты. Выезд гостя пересоздает
// топик: история переписки не должна пережить заселение следующего гостя.
func (s *Service) announceTransition(
	ctx context.Context,
	room models.RoomSnapshot,
	previous models.RoomSnapshot,
	known bool,
	topicID int64,
) (int64, error) {
	switch {
	case room.Status == models.RoomAvailable && known && previous.Status == models.RoomOccupied:
		s.logger.Info("Гость выехал из комнаты, очистка истории",
			"roomNumber", room.RoomNumber,
		)

		newTopicID, err := s.topics.RecreateTopic(ctx, room.RoomNumber)
		if err != nil {
			return topicID, err
		}

		metrics.RecordRoomTransition("vacated")

		text := fmt.Sprintf("✅ Комната %s свободна", room.RoomNumber)
		if err := s.telegram.SendTopicMessage(ctx, newTopicID, text); err != nil {
			s.logger.Error("Не удалось объявить освобождение комнаты",
				"error", err,
				"roomNumber", room.RoomNumber,
			)
		}

		s.publishEvent(ctx, &models.HotelEvent{
			Type:       models.EventRoomVacated,
			RoomNumber: room.RoomNumber,
		})

		return newTopicID, nil

	case room.Occupied() && (!known || previous.Status == models.RoomAvailable):
		s.logger.Info("В комнату заселился гость",
			"roomNumber", room.RoomNumber,
			"guestName", room.GuestName,
		)

		metrics.RecordRoomTransition("occupied")

		text := fmt.Sprintf("👤 Комната %s занята.\n<b>Гость:</b> %s", room.RoomNumber, room.GuestName)
		if err := s.telegram.SendTopicMessage(ctx, topicID, text); err != nil {
			s.logger.Error("Не удалось объявить заселение комнаты",
				"error", err,
				"roomNumber", room.RoomNumber,
			)
		}

		s.publishEvent(ctx, &models.HotelEvent{
			Type:       models.EventRoomOccupied,
			RoomNumber: room.RoomNumber,
			GuestName:  room.GuestName,
			ChatID:     room.ChatID,
		})
	}

	return topicID, nil
}

// ProcessEmployeeReply доставляет ответ сотрудника из топика гостю через API
// отеля. Возвращаемый текст отправляется сотруднику как подтверждение.
func (s *Service) ProcessEmployeeReply(ctx context.Context, topicID, employeeID int64, text string) (string, error) {
	roomNumber, err := s.topics.FindRoomByTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, &customerrors.ErrTopicNotFound{}) {
			s.logger.Warn("Получен ответ в неизвестном топике",
				"topicID", topicID,
			)

			return "", err
		}

		return "", err
	}

	room, known := s.state.Previous(roomNumber)
	if !known || !room.Occupied() {
		return "❌ Нельзя отправить сообщение. В этой комнате сейчас нет гостя.", &customerrors.ErrRoomNotOccupied{RoomNumber: roomNumber}
	}

	if !room.HasChat {
		return "❌ Ошибка: не найден ID чата для текущего гостя.", &customerrors.ErrChatNotLinked{RoomNumber: roomNumber}
	}

	if s.claims != nil {
		if err := s.claims.EnsureOwnership(ctx, room.ChatID, employeeID); err != nil {
			if errors.Is(err, &customerrors.ErrAlreadyClaimed{}) {
				return "❌ Диалог уже взят другим сотрудником.", err
			}

			return "", err
		}
	}

	s.logger.Info("Сотрудник ответил в топике комнаты",
		"roomNumber", roomNumber,
		"chatID", room.ChatID,
		"employeeID", employeeID,
	)

	if err := s.hotelAPI.SendEmployeeMessage(ctx, room.ChatID, text); err != nil {
		metrics.RecordRelayedMessage("staff_to_guest", err)

		return "❌ Произошла ошибка при отправке сообщения гостю.", err
	}

	metrics.RecordRelayedMessage("staff_to_guest", nil)

	s.publishEvent(ctx, &models.HotelEvent{
		Type:       models.EventEmployeeReplySent,
		RoomNumber: roomNumber,
		ChatID:     room.ChatID,
	})

	return "✅ Сообщение отправлено гостю", nil
}

func (s *Service) publishEvent(ctx context.Context, event *models.HotelEvent) {
	if s.events == nil {
		return
	}

	event.OccurredAt = time.Now()

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Ошибка при публикации события",
			"error", err,
			"type", string(event.Type),
		)
	}
}

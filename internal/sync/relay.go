package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/central-university-dev/go-hotel-sync/internal/common/metrics"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
	"github.com/central-university-dev/go-hotel-sync/internal/sync/repository"
)

// Relay переносит сообщения гостя из чата API отеля в топик комнаты.
// Вотермарка продвигается после каждой успешной пересылки, поэтому сбой
// посреди пачки не теряет и не дублирует сообщения.
type Relay struct {
	hotelAPI   HotelAPI
	telegram   TelegramClient
	watermarks repository.WatermarkRepository
	claims     ClaimService
	pageLimit  int
	logger     *slog.Logger
}

func NewRelay(
	hotelAPI HotelAPI,
	telegram TelegramClient,
	watermarks repository.WatermarkRepository,
	claims ClaimService,
	pageLimit int,
	logger *slog.Logger,
) *Relay {
	return &Relay{
		hotelAPI:   hotelAPI,
		telegram:   telegram,
		watermarks: watermarks,
		claims:     claims,
		pageLimit:  pageLimit,
		logger:     logger,
	}
}

// RelayRoom пересылает непрочитанные сообщения гостя комнаты в ее топик.
// Для свободной комнаты или комнаты без привязанного чата ничего не делает.
func (r *Relay) RelayRoom(ctx context.Context, room models.RoomSnapshot, topicID int64) error {
	if !room.Occupied() || !room.HasChat {
		return nil
	}

	watermark, err := r.watermarks.Get(ctx, room.ChatID)
	if err != nil {
		return fmt.Errorf("ошибка при чтении вотермарки чата %d: %w", room.ChatID, err)
	}

	messages, err := r.hotelAPI.GetChatMessages(ctx, room.ChatID, watermark, r.pageLimit)
	if err != nil {
		return fmt.Errorf("ошибка при получении сообщений чата %d: %w", room.ChatID, err)
	}

	for _, msg := range messages {
		if msg.Sender != models.SenderGuest {
			continue
		}

		text := fmt.Sprintf("👤 <b>Гость:</b>\n%s", msg.Content)

		if err := r.telegram.SendTopicMessage(ctx, topicID, text); err != nil {
			metrics.RecordRelayedMessage("guest_to_staff", err)

			r.logger.Error("Не удалось переслать сообщение гостя в топик",
				"error", err,
				"chatID", room.ChatID,
				"roomNumber", room.RoomNumber,
				"messageID", msg.ID,
			)

			// Остальные сообщения придут при следующем опросе: вотермарка
			// не продвинулась, порядок сохранится.
			return err
		}

		if err := r.watermarks.Set(ctx, room.ChatID, msg.ID); err != nil {
			return fmt.Errorf("ошибка при сохранении вотермарки чата %d: %w", room.ChatID, err)
		}

		metrics.RecordRelayedMessage("guest_to_staff", nil)

		if r.claims != nil {
			if err := r.claims.ReopenOnGuestMessage(ctx, room.ChatID); err != nil {
				r.logger.Warn("Не удалось вернуть диалог в очередь",
					"error", err,
					"chatID", room.ChatID,
				)
			}
		}
	}

	return nil
}

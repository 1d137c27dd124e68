package sync

import (
	"context"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type HotelAPI interface {
	GetRooms(ctx context.Context) ([]models.RoomSnapshot, error)
	GetChatMessages(ctx context.Context, chatID, sinceID int64, limit int) ([]models.ChatMessage, error)
	SendEmployeeMessage(ctx context.Context, chatID int64, text string) error
}

type TelegramClient interface {
	CreateTopic(ctx context.Context, name string) (int64, error)
	DeleteTopic(ctx context.Context, topicID int64) error
	SendTopicMessage(ctx context.Context, topicID int64, text string) error
}

// ClaimService связывает ретрансляцию с жизненным циклом владения диалогом.
type ClaimService interface {
	EnsureOwnership(ctx context.Context, chatID, employeeID int64) error
	ReopenOnGuestMessage(ctx context.Context, chatID int64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event *models.HotelEvent) error
}

package repository

import (
	"context"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// ConversationRepository хранит состояние владения диалогами.
type ConversationRepository interface {
	// Find возвращает диалог либо ErrConversationNotFound.
	Find(ctx context.Context, chatID int64) (*models.Conversation, error)

	// Ensure создает запись диалога в статусе open, если ее еще нет.
	Ensure(ctx context.Context, chatID int64, chatType models.ChatType) error

	// Claim атомарно переводит open -> claimed. Условное обновление по статусу
	// гарантирует, что из двух одновременных попыток выигрывает ровно одна;
	// проигравшая получает ErrAlreadyClaimed.
	Claim(ctx context.Context, chatID, employeeID int64) error

	// Reopen переводит claimed -> open и снимает назначенного сотрудника.
	// Диалог в статусе closed не трогается.
	Reopen(ctx context.Context, chatID int64) error

	// Close закрывает диалог. Из closed возврата нет.
	Close(ctx context.Context, chatID int64) error
}

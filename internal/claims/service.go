package claims

import (
	"context"
	"errors"
	"log/slog"

	"github.com/central-university-dev/go-hotel-sync/internal/claims/repository"
	"github.com/central-university-dev/go-hotel-sync/internal/common/metrics"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// Service контролирует жизненный цикл владения диалогом: open -> claimed -> closed.
type Service struct {
	conversations repository.ConversationRepository
	logger        *slog.Logger
}

func NewService(conversations repository.ConversationRepository, logger *slog.Logger) *Service {
	return &Service{
		conversations: conversations,
		logger:        logger,
	}
}

// Claim пытается взять открытый диалог. Из двух одновременных попыток
// выигрывает ровно одна, вторая получает ErrAlreadyClaimed.
func (s *Service) Claim(ctx context.Context, chatID, employeeID int64) error {
	err := s.conversations.Claim(ctx, chatID, employeeID)
	if err != nil {
		if errors.Is(err, &customerrors.ErrAlreadyClaimed{}) {
			metrics.RecordClaimAttempt("conflict")
		} else {
			metrics.RecordClaimAttempt("error")
		}

		return err
	}

	metrics.RecordClaimAttempt("success")

	s.logger.Info("Диалог взят сотрудником",
		"chat_id", chatID,
		"employee_id", employeeID,
	)

	return nil
}

// EnsureOwnership гарантирует, что сотрудник владеет диалогом перед ответом
// гостю: открытый диалог берется атомарно, свой — пропускается, чужой или
// закрытый отклоняется.
func (s *Service) EnsureOwnership(ctx context.Context, chatID, employeeID int64) error {
	if err := s.conversations.Ensure(ctx, chatID, models.ChatReception); err != nil {
		return err
	}

	conversation, err := s.conversations.Find(ctx, chatID)
	if err != nil {
		return err
	}

	switch conversation.Status {
	case models.ConversationClaimed:
		if conversation.AssignedEmployeeID == employeeID {
			return nil
		}

		metrics.RecordClaimAttempt("conflict")

		return &customerrors.ErrAlreadyClaimed{ChatID: chatID}
	case models.ConversationClosed:
		return &customerrors.ErrAlreadyClaimed{ChatID: chatID}
	case models.ConversationOpen:
		return s.Claim(ctx, chatID, employeeID)
	default:
		return s.Claim(ctx, chatID, employeeID)
	}
}

// ReopenOnGuestMessage возвращает диалог в очередь неразобранных: гость,
// написавший в решенный тред, не должен молча попасть к возможно
// отсутствующему сотруднику.
func (s *Service) ReopenOnGuestMessage(ctx context.Context, chatID int64) error {
	if err := s.conversations.Ensure(ctx, chatID, models.ChatReception); err != nil {
		return err
	}

	conversation, err := s.conversations.Find(ctx, chatID)
	if err != nil {
		return err
	}

	if conversation.Type != models.ChatReception {
		return nil
	}

	if conversation.Status != models.ConversationClaimed {
		return nil
	}

	if err := s.conversations.Reopen(ctx, chatID); err != nil {
		return err
	}

	s.logger.Info("Диалог возвращен в очередь после сообщения гостя",
		"chat_id", chatID,
	)

	return nil
}

// Close закрывает диалог. Возврата из closed нет.
func (s *Service) Close(ctx context.Context, chatID int64) error {
	return s.conversations.Close(ctx, chatID)
}

package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/central-university-dev/go-hotel-sync/internal/database"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
	"github.com/central-university-dev/go-hotel-sync/pkg/txs"
	"github.com/jackc/pgx/v5"
)

type ConversationRepository struct {
	db        *database.PostgresDB
	txManager *txs.TxManager
}

func NewConversationRepository(db *database.PostgresDB, txManager *txs.TxManager) *ConversationRepository {
	return &ConversationRepository{
		db:        db,
		txManager: txManager,
	}
}

func (r *ConversationRepository) Find(ctx context.Context, chatID int64) (*models.Conversation, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	conversation := &models.Conversation{ChatID: chatID}

	var assignedEmployeeID *int64

	err := querier.QueryRow(ctx,
		"SELECT type, status, assigned_employee_id FROM conversations WHERE chat_id = $1",
		chatID).Scan(&conversation.Type, &conversation.Status, &assignedEmployeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &customerrors.ErrConversationNotFound{ChatID: chatID}
		}

		return nil, fmt.Errorf("ошибка при поиске диалога %d: %w", chatID, err)
	}

	if assignedEmployeeID != nil {
		conversation.AssignedEmployeeID = *assignedEmployeeID
	}

	return conversation, nil
}

func (r *ConversationRepository) Ensure(ctx context.Context, chatID int64, chatType models.ChatType) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	_, err := querier.Exec(ctx,
		`INSERT INTO conversations (chat_id, type, status) VALUES ($1, $2, $3)
		 ON CONFLICT (chat_id) DO NOTHING`,
		chatID, chatType, models.ConversationOpen)
	if err != nil {
		return fmt.Errorf("ошибка при создании диалога %d: %w", chatID, err)
	}

	return nil
}

func (r *ConversationRepository) Claim(ctx context.Context, chatID, employeeID int64) error {
	return r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		querier := txs.GetQuerier(ctx, r.db.Pool)

		// Условное обновление: успешна ровно одна из одновременных попыток.
		tag, err := querier.Exec(ctx,
			`UPDATE conversations
			 SET status = $1, assigned_employee_id = $2, updated_at = now()
			 WHERE chat_id = $3 AND status = $4`,
			models.ConversationClaimed, employeeID, chatID, models.ConversationOpen)
		if err != nil {
			return fmt.Errorf("ошибка при взятии диалога %d: %w", chatID, err)
		}

		if tag.RowsAffected() > 0 {
			return nil
		}

		var exists bool

		err = querier.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM conversations WHERE chat_id = $1)",
			chatID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("ошибка при проверке диалога %d: %w", chatID, err)
		}

		if !exists {
			return &customerrors.ErrConversationNotFound{ChatID: chatID}
		}

		return &customerrors.ErrAlreadyClaimed{ChatID: chatID}
	})
}

func (r *ConversationRepository) Reopen(ctx context.Context, chatID int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	_, err := querier.Exec(ctx,
		`UPDATE conversations
		 SET status = $1, assigned_employee_id = NULL, updated_at = now()
		 WHERE chat_id = $2 AND status = $3`,
		models.ConversationOpen, chatID, models.ConversationClaimed)
	if err != nil {
		return fmt.Errorf("ошибка при возврате диалога %d в очередь: %w", chatID, err)
	}

	return nil
}

func (r *ConversationRepository) Close(ctx context.Context, chatID int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	tag, err := querier.Exec(ctx,
		`UPDATE conversations SET status = $1, updated_at = now() WHERE chat_id = $2`,
		models.ConversationClosed, chatID)
	if err != nil {
		return fmt.Errorf("ошибка при закрытии диалога %d: %w", chatID, err)
	}

	if tag.RowsAffected() == 0 {
		return &customerrors.ErrConversationNotFound{ChatID: chatID}
	}

	return nil
}

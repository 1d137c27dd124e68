package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/central-university-dev/go-hotel-sync/internal/database"
	"github.com/jackc/pgx/v5"
)

type WatermarkRepository struct {
	db *database.PostgresDB
}

func NewWatermarkRepository(db *database.PostgresDB) *WatermarkRepository {
	return &WatermarkRepository{db: db}
}

func (r *WatermarkRepository) Get(ctx context.Context, chatID int64) (int64, error) {
	var lastMessageID int64

	err := r.db.Pool.QueryRow(ctx,
		"SELECT last_message_id FROM chat_watermarks WHERE chat_id = $1",
		chatID).Scan(&lastMessageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("ошибка при чтении вотермарки чата %d: %w", chatID, err)
	}

	return lastMessageID, nil
}

func (r *WatermarkRepository) Set(ctx context.Context, chatID, messageID int64) error {
	// GREATEST гарантирует, что вотермарка никогда не откатывается назад.
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO chat_watermarks (chat_id, last_message_id, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (chat_id) DO UPDATE
		 SET last_message_id = GREATEST(chat_watermarks.last_message_id, EXCLUDED.last_message_id),
		     updated_at = now()`,
		chatID, messageID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении вотермарки чата %d: %w", chatID, err)
	}

	return nil
}

package orm

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/central-university-dev/go-hotel-sync/internal/database"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/pkg/txs"
	"github.com/jackc/pgx/v5"
)

type WatermarkRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewWatermarkRepository(db *database.PostgresDB) *WatermarkRepository {
	return &WatermarkRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *WatermarkRepository) Get(ctx context.Context, chatID int64) (int64, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := r.sq.Select("last_message_id").
		From("chat_watermarks").
		Where(sq.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return 0, &customerrors.ErrBuildSQLQuery{Operation: "чтение вотермарки", Cause: err}
	}

	var lastMessageID int64

	err = querier.QueryRow(ctx, query, args...).Scan(&lastMessageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, &customerrors.ErrSQLExecution{Operation: "чтение вотермарки", Cause: err}
	}

	return lastMessageID, nil
}

func (r *WatermarkRepository) Set(ctx context.Context, chatID, messageID int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := r.sq.Insert("chat_watermarks").
		Columns("chat_id", "last_message_id").
		Values(chatID, messageID).
		Suffix(`ON CONFLICT (chat_id) DO UPDATE
			SET last_message_id = GREATEST(chat_watermarks.last_message_id, EXCLUDED.last_message_id),
			    updated_at = now()`).
		ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение вотермарки", Cause: err}
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение вотермарки", Cause: err}
	}

	return nil
}

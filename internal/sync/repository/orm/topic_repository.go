package orm

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/central-university-dev/go-hotel-sync/internal/database"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/pkg/txs"
	"github.com/jackc/pgx/v5"
)

type TopicRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewTopicRepository(db *database.PostgresDB) *TopicRepository {
	return &TopicRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *TopicRepository) Get(ctx context.Context, roomNumber string) (int64, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := r.sq.Select("topic_id").
		From("room_topics").
		Where(sq.Eq{"room_number": roomNumber}).
		ToSql()
	if err != nil {
		return 0, &customerrors.ErrBuildSQLQuery{Operation: "поиск топика комнаты", Cause: err}
	}

	var topicID int64

	err = querier.QueryRow(ctx, query, args...).Scan(&topicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &customerrors.ErrTopicNotFound{RoomNumber: roomNumber}
		}

		return 0, &customerrors.ErrSQLExecution{Operation: "поиск топика комнаты", Cause: err}
	}

	return topicID, nil
}

func (r *TopicRepository) FindRoomByTopic(ctx context.Context, topicID int64) (string, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := r.sq.Select("room_number").
		From("room_topics").
		Where(sq.Eq{"topic_id": topicID}).
		ToSql()
	if err != nil {
		return "", &customerrors.ErrBuildSQLQuery{Operation: "поиск комнаты по топику", Cause: err}
	}

	var roomNumber string

	err = querier.QueryRow(ctx, query, args...).Scan(&roomNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &customerrors.ErrTopicNotFound{RoomNumber: fmt.Sprintf("topic %d", topicID)}
		}

		return "", &customerrors.ErrSQLExecution{Operation: "поиск комнаты по топику", Cause: err}
	}

	return roomNumber, nil
}

func (r *TopicRepository) Save(ctx context.Context, roomNumber string, topicID int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	query, args, err := r.sq.Insert("room_topics").
		Columns("room_number", "topic_id").
		Values(roomNumber, topicID).
		Suffix("ON CONFLICT (room_number) DO UPDATE SET topic_id = EXCLUDED.topic_id, updated_at = now()").
		ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение топика комнаты", Cause: err}
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение топика комнаты", Cause: err}
	}

	return nil
}

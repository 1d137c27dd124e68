package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/central-university-dev/go-hotel-sync/internal/database"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/jackc/pgx/v5"
)

type TopicRepository struct {
	db *database.PostgresDB
}

func NewTopicRepository(db *database.PostgresDB) *TopicRepository {
	return &TopicRepository{db: db}
}

func (r *TopicRepository) Get(ctx context.Context, roomNumber string) (int64, error) {
	var topicID int64

	err := r.db.Pool.QueryRow(ctx,
		"SELECT topic_id FROM room_topics WHERE room_number = $1",
		roomNumber).Scan(&topicID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &customerrors.ErrTopicNotFound{RoomNumber: roomNumber}
		}

		return 0, fmt.Errorf("ошибка при поиске топика комнаты %s: %w", roomNumber, err)
	}

	return topicID, nil
}

func (r *TopicRepository) FindRoomByTopic(ctx context.Context, topicID int64) (string, error) {
	var roomNumber string

	err := r.db.Pool.QueryRow(ctx,
		"SELECT room_number FROM room_topics WHERE topic_id = $1",
		topicID).Scan(&roomNumber)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &customerrors.ErrTopicNotFound{RoomNumber: fmt.Sprintf("topic %d", topicID)}
		}

		return "", fmt.Errorf("ошибка при поиске комнаты по топику %d: %w", topicID, err)
	}

	return roomNumber, nil
}

func (r *TopicRepository) Save(ctx context.Context, roomNumber string, topicID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO room_topics (room_number, topic_id, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (room_number) DO UPDATE SET topic_id = EXCLUDED.topic_id, updated_at = now()`,
		roomNumber, topicID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении топика комнаты %s: %w", roomNumber, err)
	}

	return nil
}

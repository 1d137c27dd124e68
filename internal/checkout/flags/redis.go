package flags

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// RedisFlagStore хранит флаги отправки в Redis с TTL: после выезда гостя
// флаги протухают сами, отдельной очистки не нужно.
type RedisFlagStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisFlagStore(redisURL, password string, db int, ttl time.Duration, logger *slog.Logger) (*RedisFlagStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	logger.Info("Соединение с Redis успешно установлено")

	return &RedisFlagStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (s *RedisFlagStore) IsSent(ctx context.Context, bookingID int64, tier models.NotificationTier) (bool, error) {
	exists, err := s.client.Exists(ctx, flagKey(bookingID, tier)).Result()
	if err != nil {
		s.logger.Error("Ошибка при чтении флага из Redis",
			"error", err,
			"bookingID", bookingID,
			"tier", tier.Name,
		)

		return false, fmt.Errorf("ошибка при чтении флага из Redis: %w", err)
	}

	return exists > 0, nil
}

func (s *RedisFlagStore) MarkSent(ctx context.Context, bookingID int64, tier models.NotificationTier) error {
	if err := s.client.Set(ctx, flagKey(bookingID, tier), "1", s.ttl).Err(); err != nil {
		s.logger.Error("Ошибка при сохранении флага в Redis",
			"error", err,
			"bookingID", bookingID,
			"tier", tier.Name,
		)

		return fmt.Errorf("ошибка при сохранении флага в Redis: %w", err)
	}

	return nil
}

func (s *RedisFlagStore) Close() error {
	return s.client.Close()
}

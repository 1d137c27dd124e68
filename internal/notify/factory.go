package notify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/central-university-dev/go-hotel-sync/internal/config"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type EventPublisher interface {
	Publish(ctx context.Context, event *models.HotelEvent) error
	Close() error
}

// NoopPublisher используется, когда Kafka выключена конфигурацией.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ *models.HotelEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

func NewEventPublisher(cfg *config.Config, logger *slog.Logger) EventPublisher {
	if !cfg.KafkaEnabled {
		logger.Info("Публикация событий в Kafka выключена")
		return NoopPublisher{}
	}

	brokers := strings.Split(cfg.KafkaBrokers, ",")

	logger.Info("Создание Kafka издателя событий",
		"brokers", brokers,
		"topic", cfg.TopicHotelEvents,
	)

	return NewKafkaEventPublisher(brokers, cfg.TopicHotelEvents, cfg.TopicDeadLetter, logger)
}

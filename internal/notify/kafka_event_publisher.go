package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// KafkaEventPublisher публикует события отеля для бэкенда и дашбордов.
// Событие, которое не удалось сериализовать или доставить, уходит в DLQ.
type KafkaEventPublisher struct {
	producer    *kafka.Writer
	dlqProducer *kafka.Writer
	logger      *slog.Logger
	eventTopic  string
	dlqTopic    string
}

func NewKafkaEventPublisher(brokers []string, eventTopic, dlqTopic string, logger *slog.Logger) *KafkaEventPublisher {
	producer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        eventTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(logger.Debug),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	dlqProducer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        dlqTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		Logger:       kafka.LoggerFunc(logger.Debug),
		ErrorLogger:  kafka.LoggerFunc(logger.Error),
	}

	return &KafkaEventPublisher{
		producer:    producer,
		dlqProducer: dlqProducer,
		logger:      logger,
		eventTopic:  eventTopic,
		dlqTopic:    dlqTopic,
	}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event *models.HotelEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Ошибка при сериализации события",
			"error", err,
			"type", string(event.Type),
		)

		return fmt.Errorf("ошибка при сериализации события: %w", err)
	}

	err = p.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(string(event.Type)),
		Value: value,
		Time:  event.OccurredAt,
	})

	if err != nil {
		p.logger.Error("Ошибка при отправке события в Kafka",
			"error", err,
			"type", string(event.Type),
		)

		if dlqErr := p.sendToDLQ(ctx, value, err.Error()); dlqErr != nil {
			p.logger.Error("Ошибка при отправке события в DLQ",
				"error", dlqErr,
			)
		}

		return fmt.Errorf("ошибка при отправке события в Kafka: %w", err)
	}

	return nil
}

func (p *KafkaEventPublisher) sendToDLQ(ctx context.Context, message []byte, errMsg string) error {
	return p.dlqProducer.WriteMessages(ctx, kafka.Message{
		Key:   []byte("error"),
		Value: message,
		Headers: []kafka.Header{
			{Key: "error", Value: []byte(errMsg)},
			{Key: "timestamp", Value: []byte(time.Now().Format(time.RFC3339))},
		},
		Time: time.Now(),
	})
}

func (p *KafkaEventPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return err
	}

	return p.dlqProducer.Close()
}

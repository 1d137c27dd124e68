package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/central-university-dev/go-hotel-sync/internal/common/metrics"
	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/sync/repository"
)

// TopicManager управляет жизненным циклом топиков супергруппы: по топику
// на комнату, пересоздание после выезда гостя очищает историю переписки.
type TopicManager struct {
	telegram TelegramClient
	topics   repository.TopicRepository
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
}

func NewTopicManager(telegram TelegramClient, topics repository.TopicRepository, logger *slog.Logger) *TopicManager {
	return &TopicManager{
		telegram: telegram,
		topics:   topics,
		sleep:    sleepContext,
		logger:   logger,
	}
}

// SetSleep подменяет ожидание retry-after в тестах.
func (m *TopicManager) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	m.sleep = sleep
}

// EnsureTopic возвращает топик комнаты, создавая его при отсутствии.
func (m *TopicManager) EnsureTopic(ctx context.Context, roomNumber string) (int64, error) {
	topicID, err := m.topics.Get(ctx, roomNumber)
	if err == nil {
		return topicID, nil
	}

	if !errors.Is(err, &customerrors.ErrTopicNotFound{}) {
		return 0, err
	}

	m.logger.Info("Обнаружена новая комната, для которой нет топика",
		"roomNumber", roomNumber,
	)

	return m.createAndSave(ctx, roomNumber)
}

// RecreateTopic удаляет старый топик комнаты и создает новый.
// Удаление делается по возможности: недоступный старый топик не мешает
// завести свежий.
func (m *TopicManager) RecreateTopic(ctx context.Context, roomNumber string) (int64, error) {
	oldTopicID, err := m.topics.Get(ctx, roomNumber)
	if err == nil {
		if err := m.telegram.DeleteTopic(ctx, oldTopicID); err != nil {
			m.logger.Warn("Не удалось удалить старый топик",
				"error", err,
				"roomNumber", roomNumber,
				"topicID", oldTopicID,
			)
		} else {
			m.logger.Info("Старый топик комнаты удален",
				"roomNumber", roomNumber,
				"topicID", oldTopicID,
			)
		}
	} else if !errors.Is(err, &customerrors.ErrTopicNotFound{}) {
		return 0, err
	}

	topicID, err := m.createAndSave(ctx, roomNumber)
	if err != nil {
		return 0, err
	}

	metrics.TopicsRecreatedTotal.Inc()

	return topicID, nil
}

// FindRoomByTopic выполняет обратный поиск комнаты по топику для обработки
// ответов сотрудников.
func (m *TopicManager) FindRoomByTopic(ctx context.Context, topicID int64) (string, error) {
	return m.topics.FindRoomByTopic(ctx, topicID)
}

func (m *TopicManager) createAndSave(ctx context.Context, roomNumber string) (int64, error) {
	topicID, err := m.createWithRetry(ctx, roomNumber)
	if err != nil {
		return 0, err
	}

	if err := m.topics.Save(ctx, roomNumber, topicID); err != nil {
		return 0, fmt.Errorf("ошибка при сохранении топика комнаты %s: %w", roomNumber, err)
	}

	m.logger.Info("Создан новый топик для комнаты",
		"roomNumber", roomNumber,
		"topicID", topicID,
	)

	return topicID, nil
}

// createWithRetry создает топик, пережидая лимиты Telegram. Ожидание ровно
// столько, сколько просит Telegram, без ограничения числа попыток: лимит
// на создание топиков временный, а комната без топика бесполезна.
func (m *TopicManager) createWithRetry(ctx context.Context, roomNumber string) (int64, error) {
	name := fmt.Sprintf("Комната %s", roomNumber)

	for {
		topicID, err := m.telegram.CreateTopic(ctx, name)
		if err == nil {
			return topicID, nil
		}

		var retryAfter *customerrors.ErrRetryAfter
		if !errors.As(err, &retryAfter) {
			return 0, fmt.Errorf("ошибка при создании топика для комнаты %s: %w", roomNumber, err)
		}

		m.logger.Warn("Превышен лимит на создание топиков, ожидание",
			"roomNumber", roomNumber,
			"wait", retryAfter.Wait,
		)

		if err := m.sleep(ctx, retryAfter.Wait); err != nil {
			return 0, err
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package repository

import "context"

// TopicRepository — долговременное соответствие комнаты и топика супергруппы.
// Запись заменяется целиком при пересоздании топика после выезда гостя.
type TopicRepository interface {
	// Get возвращает ID топика комнаты либо ErrTopicNotFound.
	Get(ctx context.Context, roomNumber string) (int64, error)

	// FindRoomByTopic выполняет обратный поиск комнаты по ID топика.
	FindRoomByTopic(ctx context.Context, topicID int64) (string, error)

	// Save создает или заменяет запись комнаты.
	Save(ctx context.Context, roomNumber string, topicID int64) error
}

// WatermarkRepository хранит ID последнего ретранслированного сообщения
// по каждому удаленному чату. Значение не убывает: попытка записать меньший
// ID сохраняет текущий.
type WatermarkRepository interface {
	// Get возвращает вотермарку чата; 0 означает, что чат еще не ретранслировался.
	Get(ctx context.Context, chatID int64) (int64, error)

	// Set продвигает вотермарку до messageID.
	Set(ctx context.Context, chatID, messageID int64) error
}

package memory

import (
	"context"
	"fmt"
	"sync"

	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
)

type TopicRepository struct {
	topics map[string]int64
	mu     sync.RWMutex
}

func NewTopicRepository() *TopicRepository {
	return &TopicRepository{
		topics: make(map[string]int64),
	}
}

func (r *TopicRepository) Get(_ context.Context, roomNumber string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topicID, exists := r.topics[roomNumber]
	if !exists {
		return 0, &customerrors.ErrTopicNotFound{RoomNumber: roomNumber}
	}

	return topicID, nil
}

func (r *TopicRepository) FindRoomByTopic(_ context.Context, topicID int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for roomNumber, id := range r.topics {
		if id == topicID {
			return roomNumber, nil
		}
	}

	return "", &customerrors.ErrTopicNotFound{RoomNumber: fmt.Sprintf("topic %d", topicID)}
}

func (r *TopicRepository) Save(_ context.Context, roomNumber string, topicID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.topics[roomNumber] = topicID

	return nil
}

package memory

import (
	"context"
	"sync"
)

type WatermarkRepository struct {
	watermarks map[int64]int64
	mu         sync.RWMutex
}

func NewWatermarkRepository() *WatermarkRepository {
	return &WatermarkRepository{
		watermarks: make(map[int64]int64),
	}
}

func (r *WatermarkRepository) Get(_ context.Context, chatID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.watermarks[chatID], nil
}

func (r *WatermarkRepository) Set(_ context.Context, chatID, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if messageID > r.watermarks[chatID] {
		r.watermarks[chatID] = messageID
	}

	return nil
}

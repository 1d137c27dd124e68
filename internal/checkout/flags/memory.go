package flags

import (
	"context"
	"fmt"
	"sync"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type MemoryFlagStore struct {
	mu   sync.RWMutex
	sent map[string]struct{}
}

func NewMemoryFlagStore() *MemoryFlagStore {
	return &MemoryFlagStore{
		sent: make(map[string]struct{}),
	}
}

func (s *MemoryFlagStore) IsSent(_ context.Context, bookingID int64, tier models.NotificationTier) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sent[flagKey(bookingID, tier)]

	return ok, nil
}

func (s *MemoryFlagStore) MarkSent(_ context.Context, bookingID int64, tier models.NotificationTier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent[flagKey(bookingID, tier)] = struct{}{}

	return nil
}

func flagKey(bookingID int64, tier models.NotificationTier) string {
	return fmt.Sprintf("notified:%d:%s", bookingID, tier.Name)
}

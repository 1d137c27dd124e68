package sync

import (
	"sync"

	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

// StateStore держит снимок состояния отеля с предыдущего опроса.
// Живет только в памяти процесса: после рестарта первый опрос заполняет
// его заново без объявлений о переходах.
type StateStore struct {
	mu    sync.RWMutex
	rooms map[string]models.RoomSnapshot
}

func NewStateStore() *StateStore {
	return &StateStore{
		rooms: make(map[string]models.RoomSnapshot),
	}
}

// Previous возвращает прошлый снимок комнаты и признак его наличия.
func (s *StateStore) Previous(roomNumber string) (models.RoomSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.rooms[roomNumber]

	return snapshot, ok
}

// Replace заменяет снимок комнаты целиком.
func (s *StateStore) Replace(snapshot models.RoomSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[snapshot.RoomNumber] = snapshot
}

// Seeded сообщает, был ли уже хотя бы один успешный опрос.
func (s *StateStore) Seeded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rooms) > 0
}

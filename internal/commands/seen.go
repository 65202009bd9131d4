package commands

import (
	"sync"
	"time"
)

// seenSet — набор уже обработанных команд с выталкиванием по возрасту.
// Запись живёт втрое дольше окна свежести: к моменту выталкивания фильтр
// свежести сам отсечёт повтор того же id, так что действие не сработает дважды
type seenSet struct {
	mu  sync.Mutex
	ttl time.Duration
	ids map[string]time.Time
}

func newSeenSet(ttl time.Duration) *seenSet {
	return &seenSet{ttl: ttl, ids: make(map[string]time.Time)}
}

// Add отмечает id и возвращает false, если он уже был отмечен
func (s *seenSet) Add(id string) bool {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, seen := range s.ids {
		if now.Sub(seen) > s.ttl {
			delete(s.ids, key)
		}
	}

	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = now
	return true
}

func (s *seenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

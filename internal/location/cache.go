package location

import (
	"sync"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
)

// Cache — разделяемая последняя известная GPS-точка. Пара lat/lng меняется
// только целиком под мьютексом, читатели не видят «рваных» значений
type Cache struct {
	mu  sync.Mutex
	loc domain.Location
}

func NewCache(initial domain.Location) *Cache {
	return &Cache{loc: initial}
}

func (c *Cache) Snapshot() domain.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loc
}

// Update применяет частичное обновление: отсутствующее поле сохраняет прежнее значение
func (c *Cache) Update(lat, lng *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lat != nil {
		c.loc.Lat = *lat
	}
	if lng != nil {
		c.loc.Lng = *lng
	}
}

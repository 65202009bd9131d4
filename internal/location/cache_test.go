package location

import (
	"sync"
	"testing"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCache_Snapshot(t *testing.T) {
	cache := NewCache(domain.Location{Lat: 24.879915, Lng: 88.271300})

	loc := cache.Snapshot()
	assert.Equal(t, 24.879915, loc.Lat)
	assert.Equal(t, 88.271300, loc.Lng)
}

func TestCache_PartialUpdateKeepsPriorField(t *testing.T) {
	cache := NewCache(domain.Location{Lat: 1, Lng: 2})

	lat := 10.0
	cache.Update(&lat, nil)
	assert.Equal(t, domain.Location{Lat: 10, Lng: 2}, cache.Snapshot())

	lng := 20.0
	cache.Update(nil, &lng)
	assert.Equal(t, domain.Location{Lat: 10, Lng: 20}, cache.Snapshot())
}

func TestCache_NoTornReads(t *testing.T) {
	a := domain.Location{Lat: 1, Lng: 100}
	b := domain.Location{Lat: 2, Lng: 200}
	cache := NewCache(a)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			loc := a
			if i%2 == 1 {
				loc = b
			}
			cache.Update(&loc.Lat, &loc.Lng)
		}
	}()

	// читатель всегда видит одну из двух полных пар, никогда смесь
	for i := 0; i < 2000; i++ {
		loc := cache.Snapshot()
		assert.True(t, loc == a || loc == b, "torn read: %+v", loc)
	}

	close(done)
	wg.Wait()
}

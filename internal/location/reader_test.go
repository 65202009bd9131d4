package location

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestReader_ParsesValidLinesAndSkipsGarbage(t *testing.T) {
	cache := NewCache(domain.Location{Lat: 1, Lng: 2})
	logger, _ := zap.NewDevelopment()
	reader := NewReader(cache, logger)

	input := strings.Join([]string{
		`garbage from boot`,
		`{"lat": 24.5, "lng": 88.1}`,
		`{"lat": broken json}`,
		`not json at all`,
		`{"lat": 25.0}`, // без lng — lng сохраняется
		``,
	}, "\n")

	reader.Run(context.Background(), strings.NewReader(input))

	assert.Equal(t, domain.Location{Lat: 25.0, Lng: 88.1}, cache.Snapshot())
}

// idleThenDataReader ведёт себя как серийный порт с таймаутом чтения:
// на тихой линии каждое чтение возвращает (0, nil)
type idleThenDataReader struct {
	idle int
	data *strings.Reader
}

func (r *idleThenDataReader) Read(p []byte) (int, error) {
	if r.idle > 0 {
		r.idle--
		return 0, nil
	}
	return r.data.Read(p)
}

func TestReader_SurvivesIdleSerialLine(t *testing.T) {
	cache := NewCache(domain.Location{Lat: 1, Lng: 2})
	logger, _ := zap.NewDevelopment()
	reader := NewReader(cache, logger)

	// долгая GPS-тишина (холодный старт, тоннель) не должна убить ридер:
	// строка после сотен пустых чтений всё ещё попадает в кеш
	src := &idleThenDataReader{
		idle: 500,
		data: strings.NewReader(`{"lat": 24.5, "lng": 88.1}` + "\n"),
	}

	reader.Run(context.Background(), src)

	assert.Equal(t, domain.Location{Lat: 24.5, Lng: 88.1}, cache.Snapshot())
}

type foreverIdleReader struct{}

func (foreverIdleReader) Read(p []byte) (int, error) {
	return 0, nil
}

func TestReader_StopsOnContextCancelWhileIdle(t *testing.T) {
	cache := NewCache(domain.Location{Lat: 1, Lng: 2})
	logger, _ := zap.NewDevelopment()
	reader := NewReader(cache, logger)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reader.Run(ctx, foreverIdleReader{})
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Reader.Run did not stop after context cancellation")
	}
}

func TestReader_EmptyStreamLeavesDefaults(t *testing.T) {
	initial := domain.Location{Lat: 24.879915, Lng: 88.271300}
	cache := NewCache(initial)
	logger, _ := zap.NewDevelopment()
	reader := NewReader(cache, logger)

	reader.Run(context.Background(), strings.NewReader(""))

	assert.Equal(t, initial, cache.Snapshot())
}

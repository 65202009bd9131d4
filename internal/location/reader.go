package location

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/metrics"

	"go.uber.org/zap"
)

// Reader вычитывает из входного потока контроллера строки вида
// {"lat":24.87,"lng":88.27} и обновляет кеш. Мусорные строки отбрасываются
type Reader struct {
	cache  *Cache
	logger *zap.Logger
}

func NewReader(cache *Cache, logger *zap.Logger) *Reader {
	return &Reader{cache: cache, logger: logger}
}

type gpsLine struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// serialStream адаптирует порт с таймаутом чтения под bufio.Scanner.
// Пустое чтение (0, nil) — это истёкший таймаут на тихой линии, а не конец
// потока: без этой обёртки сканер сдаётся с io.ErrNoProgress после сотни
// таких чтений, и кеш замерзает до конца процесса
type serialStream struct {
	ctx context.Context
	src io.Reader
}

func (s *serialStream) Read(p []byte) (int, error) {
	for {
		if s.ctx.Err() != nil {
			return 0, io.EOF
		}
		n, err := s.src.Read(p)
		if n > 0 || err != nil {
			return n, err
		}
	}
}

func (r *Reader) Run(ctx context.Context, src io.Reader) {
	r.logger.Info("[LocationReader] starting GPS feed")

	scanner := bufio.NewScanner(&serialStream{ctx: ctx, src: src})
	for scanner.Scan() {
		if ctx.Err() != nil {
			r.logger.Info("[LocationReader] stopped")
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}

		var update gpsLine
		if err := json.Unmarshal([]byte(line), &update); err != nil {
			metrics.LocationParseErrors.Inc()
			r.logger.Debug("[LocationReader] malformed GPS line discarded",
				zap.String("line", line),
				zap.Error(err))
			continue
		}

		r.cache.Update(update.Lat, update.Lng)
		metrics.LocationUpdates.Inc()
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		r.logger.Warn("[LocationReader] GPS feed closed", zap.Error(err))
	}
}

package vision

import (
	"context"
	"math/rand"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Source — источник кадров с лендмарками. Реальные кадры поставляет внешний
// vision-процесс; SimSource нужен для стендовых прогонов без камеры
type Source interface {
	Run(ctx context.Context, frames chan<- *domain.Frame)
}

// SimSource генерит синтетические кадры: в основном открытые глаза,
// по скрипту — затяжной «микросон», изредка потерянный трекинг
type SimSource struct {
	interval time.Duration
	logger   *zap.Logger
	rnd      *rand.Rand
}

func NewSimSource(interval time.Duration, logger *zap.Logger) *SimSource {
	return &SimSource{
		interval: interval,
		logger:   logger,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *SimSource) Run(ctx context.Context, frames chan<- *domain.Frame) {
	s.logger.Info("[SimSource] starting frame generation",
		zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var tick int
	for {
		select {
		case <-ticker.C:
			frame := s.nextFrame(tick)
			tick++

			select {
			case frames <- frame:
			default:
				s.logger.Warn("[SimSource] frame channel full, dropping frame")
			}

		case <-ctx.Done():
			s.logger.Info("[SimSource] stopping frame generation")
			close(frames)
			return
		}
	}
}

// nextFrame: последние 30 кадров каждого цикла из 600 — закрытые глаза,
// этого хватает, чтобы пройти порог тревоги и вернуться обратно
func (s *SimSource) nextFrame(tick int) *domain.Frame {
	frame := &domain.Frame{ID: uuid.New(), Timestamp: time.Now()}

	if s.rnd.Intn(50) == 0 {
		return frame // трекинг потерян, лица нет
	}

	const cycle = 600
	if tick%cycle >= cycle-30 {
		frame.Face = SyntheticFace(0.1)
	} else {
		frame.Face = SyntheticFace(0.4)
	}
	return frame
}

// SyntheticFace строит лицо с одинаковым раскрытием обоих глаз
func SyntheticFace(openness float64) *domain.FaceLandmarks {
	eye := SyntheticEye(openness)
	return &domain.FaceLandmarks{Left: eye, Right: eye}
}

// SyntheticEye: горизонталь единичной длины, веки на ±openness/2,
// так что EAR такого глаза равен openness
func SyntheticEye(openness float64) domain.EyeLandmarks {
	h := openness / 2
	return domain.EyeLandmarks{
		{X: 0, Y: 0},
		{X: 0.3, Y: h},
		{X: 0.7, Y: h},
		{X: 1, Y: 0},
		{X: 0.7, Y: -h},
		{X: 0.3, Y: -h},
	}
}

package drowsiness

import (
	"sync"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/metrics"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/vision"

	"go.uber.org/zap"
)

// Actuator — то, что монитор дёргает на переходах
type Actuator interface {
	Arm()
	Disarm()
}

type Publisher interface {
	Publish(status domain.AlertStatus)
}

// Monitor — машина состояний сонливости. Счётчик подряд идущих кадров
// с закрытыми глазами растёт, пока EAR ниже порога; тревога взводится после
// K кадров и снимается первым же открытым кадром
type Monitor struct {
	mu           sync.Mutex
	closedFrames int
	alert        bool
	lastEAR      float64

	threshold    float64
	consecFrames int

	actuator  Actuator
	publisher Publisher
	logger    *zap.Logger
}

func NewMonitor(threshold float64, consecFrames int, actuator Actuator, publisher Publisher, logger *zap.Logger) *Monitor {
	return &Monitor{
		threshold:    threshold,
		consecFrames: consecFrames,
		actuator:     actuator,
		publisher:    publisher,
		logger:       logger,
		lastEAR:      1.0,
	}
}

// ProcessFrame: кадр без лица не трогает счётчик — замораживаем, не сбрасываем,
// чтобы сорванный трекинг во время реального микросна не стирал накопленное
func (m *Monitor) ProcessFrame(frame *domain.Frame) {
	metrics.FramesProcessed.Inc()

	if frame.Face == nil {
		metrics.FramesNoFace.Inc()
		return
	}

	m.Observe(vision.FaceScore(frame.Face))
}

type transition int

const (
	transitionNone transition = iota
	transitionAlert
	transitionWake
)

// Observe применяет одно значение EAR. Побочные эффекты (актуатор, телеметрия)
// срабатывают строго по фронту перехода, не на каждом кадре
func (m *Monitor) Observe(ear float64) {
	m.mu.Lock()
	m.lastEAR = ear

	tr := transitionNone
	if ear < m.threshold {
		m.closedFrames++
	} else {
		m.closedFrames = 0
		if m.alert {
			m.alert = false
			tr = transitionWake
		}
	}
	if m.closedFrames > m.consecFrames && !m.alert {
		m.alert = true
		tr = transitionAlert
	}
	closed := m.closedFrames
	m.mu.Unlock()

	metrics.ClosedFrames.Set(float64(closed))

	switch tr {
	case transitionAlert:
		metrics.AlertsRaised.Inc()
		m.logger.Warn("[Drowsiness] driver appears to be sleeping",
			zap.Float64("ear", ear),
			zap.Int("closed_frames", closed))
		m.actuator.Arm()
		m.publisher.Publish(domain.StatusSleeping)

	case transitionWake:
		metrics.AlertsCleared.Inc()
		m.logger.Info("[Drowsiness] driver awake again", zap.Float64("ear", ear))
		m.actuator.Disarm()
		m.publisher.Publish(domain.StatusAwake)
	}
}

// Reset принудительно возвращает машину в AWAKE по удалённой команде.
// Телеметрия пробуждения не шлётся, актуатор глушит сам поллер
func (m *Monitor) Reset() {
	m.mu.Lock()
	wasAlert := m.alert
	m.alert = false
	m.closedFrames = 0
	m.mu.Unlock()

	metrics.ClosedFrames.Set(0)
	if wasAlert {
		m.logger.Info("[Drowsiness] alert cleared by remote reset")
	}
}

func (m *Monitor) Status() domain.AlertStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.alert {
		return domain.StatusSleeping
	}
	return domain.StatusAwake
}

// State — снимок для ops-сервера
type State struct {
	ClosedFrames int     `json:"closed_frames"`
	Alert        bool    `json:"alert"`
	LastEAR      float64 `json:"last_ear"`
}

func (m *Monitor) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		ClosedFrames: m.closedFrames,
		Alert:        m.alert,
		LastEAR:      m.lastEAR,
	}
}

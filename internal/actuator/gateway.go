package actuator

import (
	"io"
	"sync"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/metrics"

	"go.uber.org/zap"
)

// Байтовые команды контроллера
const (
	cmdArm        = 'A'
	cmdDisarm     = 'S'
	cmdAlarmOn    = 'B'
	cmdKillEngine = 'K'
)

// Gateway — best-effort канал к физическому контроллеру. Ошибки записи
// глотаются и логируются: путь обработки кадра никогда не падает из-за железа
type Gateway struct {
	mu     sync.Mutex
	port   io.Writer
	logger *zap.Logger
}

// NewGateway: port == nil включает режим симуляции; он выбирается один раз
// на старте и обратно не переключается
func NewGateway(port io.Writer, logger *zap.Logger) *Gateway {
	if port == nil {
		metrics.ActuatorSimulation.Set(1)
		logger.Info("[Actuator] no serial channel attached, running in simulation mode")
	}
	return &Gateway{port: port, logger: logger}
}

func (g *Gateway) Simulated() bool {
	return g.port == nil
}

func (g *Gateway) Arm()        { g.send(cmdArm) }
func (g *Gateway) Disarm()     { g.send(cmdDisarm) }
func (g *Gateway) AlarmOn()    { g.send(cmdAlarmOn) }
func (g *Gateway) KillEngine() { g.send(cmdKillEngine) }

func (g *Gateway) send(cmd byte) {
	label := string(cmd)
	metrics.ActuatorWrites.WithLabelValues(label).Inc()

	if g.port == nil {
		g.logger.Info("[Actuator] simulated write", zap.String("command", label))
		return
	}

	g.mu.Lock()
	_, err := g.port.Write([]byte{cmd})
	g.mu.Unlock()

	if err != nil {
		metrics.ActuatorWriteFailures.Inc()
		g.logger.Warn("[Actuator] write failed",
			zap.String("command", label),
			zap.Error(err))
		return
	}

	g.logger.Debug("[Actuator] command sent", zap.String("command", label))
}

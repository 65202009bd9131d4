package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/config"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/metrics"

	"go.uber.org/zap"
)

type LocationSource interface {
	Snapshot() domain.Location
}

// Publisher асинхронно толкает телеметрию на бекенд. Снапшот события собирается
// синхронно в момент Publish, доставкой занимается пул воркеров — цикл кадров
// никогда не ждёт сеть
type Publisher struct {
	client    *http.Client
	url       string
	heartbeat time.Duration

	vehicleID string
	driver    domain.Driver
	speed     float64
	locations LocationSource

	events  chan *domain.TelemetryEvent
	workers int
	wg      sync.WaitGroup
	logger  *zap.Logger
}

func NewPublisher(cfg config.TelemetryConfig, vehicleID string, driver domain.Driver, speed float64, locations LocationSource, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		url:       cfg.APIURL,
		heartbeat: cfg.HeartbeatInterval,
		vehicleID: vehicleID,
		driver:    driver,
		speed:     speed,
		locations: locations,
		events:    make(chan *domain.TelemetryEvent, cfg.QueueSize),
		workers:   cfg.Workers,
		logger:    logger,
	}
}

// Start поднимает пул воркеров доставки
func (p *Publisher) Start(ctx context.Context) {
	p.logger.Info("[Telemetry] starting delivery workers", zap.Int("workers", p.workers))

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()

			for {
				select {
				case event, ok := <-p.events:
					if !ok {
						return
					}
					p.deliver(event, workerID)
				case <-ctx.Done():
					return
				}
			}
		}(i)
	}
}

func (p *Publisher) Wait() {
	p.wg.Wait()
}

// Publish собирает снапшот сразу (чтобы не гоняться за живыми счётчиками)
// и ставит его в очередь без блокировки; полная очередь — событие выбрасывается
func (p *Publisher) Publish(status domain.AlertStatus) {
	event := &domain.TelemetryEvent{
		VehicleID: p.vehicleID,
		Speed:     p.speed,
		GPS:       p.locations.Snapshot(),
		Alert:     status,
		Driver:    p.driver,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
	}

	select {
	case p.events <- event:
	default:
		metrics.TelemetryDropped.Inc()
		p.logger.Warn("[Telemetry] queue full, dropping event",
			zap.String("alert", status.String()))
	}
}

// deliver: fire-and-forget; сбой не ретраится — следующий heartbeat
// всё равно отправит свежее состояние
func (p *Publisher) deliver(event *domain.TelemetryEvent, workerID int) {
	body, err := json.Marshal(event)
	if err != nil {
		metrics.TelemetryFailed.Inc()
		p.logger.Error("[Telemetry] failed to encode event", zap.Error(err))
		return
	}

	start := time.Now()
	resp, err := p.client.Post(p.url, "application/json", bytes.NewReader(body))
	if err != nil {
		metrics.TelemetryFailed.Inc()
		p.logger.Warn("[Telemetry] delivery failed",
			zap.Int("worker_id", workerID),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.TelemetryFailed.Inc()
		p.logger.Warn("[Telemetry] delivery rejected",
			zap.Int("worker_id", workerID),
			zap.Int("status", resp.StatusCode))
		return
	}

	metrics.TelemetrySent.Inc()
	metrics.TelemetryDeliveryTime.Observe(time.Since(start).Seconds())
	p.logger.Info("[Telemetry] event delivered",
		zap.String("alert", event.Alert.String()),
		zap.Duration("delivery_time", time.Since(start)))
}

// RunHeartbeat шлёт текущее состояние каждые heartbeat секунд независимо
// от переходов — сервер видит, что машина жива
func (p *Publisher) RunHeartbeat(ctx context.Context, status func() domain.AlertStatus) {
	ticker := time.NewTicker(p.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.Publish(status())
		case <-ctx.Done():
			p.logger.Info("[Telemetry] heartbeat stopped")
			return
		}
	}
}

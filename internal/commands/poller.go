package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/config"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/metrics"

	"go.uber.org/zap"
)

// Actuator — команды, которыми поллер дёргает контроллер
type Actuator interface {
	AlarmOn()
	KillEngine()
	Disarm()
}

type AlertResetter interface {
	Reset()
}

// Poller опрашивает очередь команд сервера независимо от цикла кадров.
// Сетевой сбой пропускает цикл и никогда не роняет луп
type Poller struct {
	client    *http.Client
	cfg       config.CommandConfig
	vehicleID string

	actuator Actuator
	monitor  AlertResetter

	seen  *seenSet
	timer *resetTimer

	logger *zap.Logger
	now    func() time.Time // подменяется в тестах
}

func NewPoller(cfg config.CommandConfig, vehicleID string, actuator Actuator, monitor AlertResetter, logger *zap.Logger) *Poller {
	return &Poller{
		client:    &http.Client{Timeout: cfg.HTTPTimeout},
		cfg:       cfg,
		vehicleID: vehicleID,
		actuator:  actuator,
		monitor:   monitor,
		seen:      newSeenSet(3 * cfg.MaxAge),
		timer:     &resetTimer{},
		logger:    logger,
		now:       time.Now,
	}
}

func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("[CommandPoller] starting",
		zap.Duration("interval", p.cfg.PollInterval))

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pollOnce(ctx)
		case <-ctx.Done():
			p.timer.Cancel()
			p.logger.Info("[CommandPoller] stopped")
			return
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	metrics.CommandPolls.Inc()

	cmds, err := p.fetch(ctx)
	if err != nil {
		metrics.CommandPollErrors.Inc()
		p.logger.Warn("[CommandPoller] fetch failed, skipping cycle", zap.Error(err))
		return
	}

	for i := range cmds {
		p.handle(&cmds[i])
	}
}

func (p *Poller) fetch(ctx context.Context) ([]domain.RemoteCommand, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.SirenAPIURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var cmds []domain.RemoteCommand
	if err := json.NewDecoder(resp.Body).Decode(&cmds); err != nil {
		return nil, fmt.Errorf("decode command list: %w", err)
	}
	return cmds, nil
}

// handle применяет фильтры в фиксированном порядке: свой vehicleId, статус,
// свежесть, дедупликация. Протухшие команды в seen-набор не попадают —
// из pending-списка их уберёт сам сервер
func (p *Poller) handle(cmd *domain.RemoteCommand) {
	if cmd.VehicleID != p.vehicleID {
		return
	}
	if p.cfg.RequirePending && cmd.Status != domain.CommandStatusPending {
		return
	}
	if p.now().Sub(cmd.IssuedAt()) > p.cfg.MaxAge {
		metrics.CommandsStale.Inc()
		return
	}

	// действие проверяется до дедупликации и до отмены таймера: опечатка
	// на сервере не должна ни съесть id, ни снять живой авто-сброс
	switch cmd.Command {
	case domain.ActionTriggerAlarm, domain.ActionKillEngine, domain.ActionReset:
	default:
		p.logger.Warn("[CommandPoller] unknown action ignored",
			zap.String("action", cmd.Command))
		return
	}

	id := cmd.Key(p.cfg.IDField)
	if id == "" {
		p.logger.Warn("[CommandPoller] command without id skipped",
			zap.String("action", cmd.Command))
		return
	}
	if !p.seen.Add(id) {
		metrics.CommandsDuplicate.Inc()
		return
	}

	p.logger.Info("[CommandPoller] new command",
		zap.String("command_id", id),
		zap.String("action", cmd.Command))

	// любая принятая команда сначала снимает взведённый авто-сброс
	p.timer.Cancel()

	switch cmd.Command {
	case domain.ActionTriggerAlarm:
		metrics.CommandsAccepted.WithLabelValues(cmd.Command).Inc()
		p.actuator.AlarmOn()
		p.timer.Schedule(p.cfg.SirenDuration, func() {
			p.actuator.Disarm()
			p.logger.Info("[CommandPoller] siren auto reset")
		})

	case domain.ActionKillEngine:
		metrics.CommandsAccepted.WithLabelValues(cmd.Command).Inc()
		p.actuator.KillEngine()
		p.timer.Schedule(p.cfg.EngineResetDelay, func() {
			p.actuator.Disarm()
			p.logger.Info("[CommandPoller] engine auto reset")
		})

	case domain.ActionReset:
		metrics.CommandsAccepted.WithLabelValues(cmd.Command).Inc()
		p.actuator.Disarm()
		p.monitor.Reset()
	}
}

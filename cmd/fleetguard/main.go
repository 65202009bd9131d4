package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/actuator"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/commands"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/config"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/drowsiness"
	apphttp "github.com/SAHARIARSUPTO/FleetGuard/internal/http"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/location"
	applogger "github.com/SAHARIARSUPTO/FleetGuard/internal/logger"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/telemetry"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/vision"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

func main() {
	// Отменяемый контекст на всё приложение
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()

	logger, err := applogger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error during logger sync: %v", err)
		}
	}()

	logger.Info("Starting FleetGuard client",
		zap.String("vehicle_id", cfg.VehicleID),
		zap.String("driver_id", cfg.DriverID))

	// Серийный канал к контроллеру: не нашли порт — работаем в симуляции
	var port serial.Port
	if cfg.SerialConfig.Port != "" {
		mode := &serial.Mode{BaudRate: cfg.SerialConfig.BaudRate}
		opened, err := serial.Open(cfg.SerialConfig.Port, mode)
		if err != nil {
			logger.Warn("Controller not found, falling back to simulation mode",
				zap.String("port", cfg.SerialConfig.Port),
				zap.Error(err))
		} else {
			if err := opened.SetReadTimeout(cfg.SerialConfig.ReadTimeout); err != nil {
				logger.Warn("Failed to set serial read timeout", zap.Error(err))
			}
			port = opened
			defer func() {
				if err := opened.Close(); err != nil {
					logger.Warn("Error closing serial port", zap.Error(err))
				}
			}()
			logger.Info("Controller connected",
				zap.String("port", cfg.SerialConfig.Port),
				zap.Int("baud", cfg.SerialConfig.BaudRate))
		}
	}

	gateway := actuator.NewGateway(port, logger)

	// Кеш GPS; при живом порте его кормит ридер входящих строк
	locations := location.NewCache(domain.Location{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng})
	if port != nil {
		reader := location.NewReader(locations, logger)
		go reader.Run(ctx, port)
	}

	driver := domain.Driver{ID: cfg.DriverID, Name: cfg.DriverName}

	publisher := telemetry.NewPublisher(cfg.TelemetryConfig, cfg.VehicleID, driver, cfg.Speed, locations, logger)
	publisher.Start(ctx)

	monitor := drowsiness.NewMonitor(cfg.EARThreshold, cfg.EARConsecFrames, gateway, publisher, logger)

	// Heartbeat живости
	go publisher.RunHeartbeat(ctx, monitor.Status)

	// Опрос очереди команд
	poller := commands.NewPoller(cfg.CommandConfig, cfg.VehicleID, gateway, monitor, logger)
	go poller.Run(ctx)

	// Ops HTTP сервер
	opsServer := apphttp.NewServer(cfg.RESTPort, monitor, locations, cfg.VehicleID, driver, cfg.Speed, gateway.Simulated(), logger)
	go func() {
		if err := opsServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("Ops HTTP server failed", zap.Error(err))
		}
	}()

	// Источник кадров и цикл обработки
	frames := make(chan *domain.Frame, 16)
	source := vision.NewSimSource(cfg.FrameInterval, logger)
	go source.Run(ctx, frames)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case frame, ok := <-frames:
				if !ok {
					logger.Info("Frame source closed, stopping frame loop")
					return
				}
				monitor.ProcessFrame(frame)
			case <-ctx.Done():
				logger.Info("Stopping frame loop due to context cancellation")
				return
			}
		}
	}()

	logger.Info("FleetGuard client running")

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	cancel()
	wg.Wait()
	publisher.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ops HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("FleetGuard client stopped")
}

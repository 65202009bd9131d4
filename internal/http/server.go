package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/drowsiness"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type DrowsinessState interface {
	Snapshot() drowsiness.State
}

type LocationSource interface {
	Snapshot() domain.Location
}

// Status отдаётся и на /api/v1/status, и в websocket-поток дашборда
type Status struct {
	VehicleID    string          `json:"vehicleId"`
	Driver       domain.Driver   `json:"driver"`
	Alert        bool            `json:"alert"`
	ClosedFrames int             `json:"closed_frames"`
	LastEAR      float64         `json:"last_ear"`
	GPS          domain.Location `json:"gps"`
	Speed        float64         `json:"speed"`
	Simulation   bool            `json:"simulation"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Server — локальная ops-поверхность: здоровье, метрики, живое состояние.
// Заменяет OpenCV-оверлей оригинального клиента
type Server struct {
	server    *http.Server
	state     DrowsinessState
	locations LocationSource

	vehicleID string
	driver    domain.Driver
	speed     float64
	simulated bool

	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewServer(addr string, state DrowsinessState, locations LocationSource, vehicleID string, driver domain.Driver, speed float64, simulated bool, logger *zap.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		state:     state,
		locations: locations,
		vehicleID: vehicleID,
		driver:    driver,
		speed:     speed,
		simulated: simulated,
		upgrader: websocket.Upgrader{
			// дашборд локальный, origin не проверяем
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}

	router.Use(s.metricsMiddleware)
	router.Use(s.loggingMiddleware)

	// Маршруты
	router.HandleFunc("/health", s.healthCheck).Methods("GET")
	router.HandleFunc("/api/v1/status", s.getStatus).Methods("GET")
	router.HandleFunc("/ws", s.handleWS).Methods("GET")

	// Метрики Prometheus
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return s
}

func (s *Server) Start() error {
	s.logger.Info("Starting ops HTTP server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down ops HTTP server")
	return s.server.Shutdown(ctx)
}

// responseWriter для отслеживания статус кода
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// middleware для сбора метрик HTTP запросов с использованием шаблона пути
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// middleware для логирования HTTP запросов
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("ip", r.RemoteAddr),
			zap.Int("status", rw.statusCode),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) status() Status {
	state := s.state.Snapshot()
	return Status{
		VehicleID:    s.vehicleID,
		Driver:       s.driver,
		Alert:        state.Alert,
		ClosedFrames: state.ClosedFrames,
		LastEAR:      state.LastEAR,
		GPS:          s.locations.Snapshot(),
		Speed:        s.speed,
		Simulation:   s.simulated,
		Timestamp:    time.Now().UTC(),
	}
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]interface{}{
		"status":     "healthy",
		"simulation": s.simulated,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to encode health check response", zap.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		s.logger.Error("Failed to encode status response", zap.Error(err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

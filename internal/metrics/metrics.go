package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики ops-сервера
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// метрики цикла обработки кадров
	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drowsiness_frames_processed_total",
		Help: "Total number of camera frames processed",
	})

	FramesNoFace = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drowsiness_frames_no_face_total",
		Help: "Total number of frames with no face detected",
	})

	ClosedFrames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "drowsiness_consecutive_closed_frames",
		Help: "Current run of consecutive closed-eye frames",
	})

	AlertsRaised = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drowsiness_alerts_raised_total",
		Help: "Total number of AWAKE to ALERT transitions",
	})

	AlertsCleared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "drowsiness_alerts_cleared_total",
		Help: "Total number of ALERT to AWAKE transitions",
	})

	// метрики телеметрии
	TelemetrySent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_events_sent_total",
		Help: "Total number of telemetry events delivered",
	})

	TelemetryFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_events_failed_total",
		Help: "Total number of telemetry delivery failures",
	})

	TelemetryDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "telemetry_events_dropped_total",
		Help: "Total number of telemetry events dropped due to a full queue",
	})

	TelemetryDeliveryTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "telemetry_delivery_seconds",
		Help:    "Histogram of telemetry delivery durations",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // от 5ms до ~2.5 секунд
	})

	// метрики опроса очереди команд
	CommandPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "command_poll_cycles_total",
		Help: "Total number of command queue poll cycles",
	})

	CommandPollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "command_poll_errors_total",
		Help: "Total number of failed command queue poll cycles",
	})

	CommandsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commands_accepted_total",
		Help: "Total number of remote commands accepted, by action",
	}, []string{"action"})

	CommandsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commands_duplicate_total",
		Help: "Total number of remote commands skipped as already processed",
	})

	CommandsStale = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commands_stale_total",
		Help: "Total number of remote commands skipped as too old",
	})

	// метрики актуатора
	ActuatorWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "actuator_writes_total",
		Help: "Total number of actuator command writes, by command byte",
	}, []string{"command"})

	ActuatorWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "actuator_write_failures_total",
		Help: "Total number of failed actuator writes",
	})

	ActuatorSimulation = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "actuator_simulation_mode",
		Help: "1 when running without a physical serial channel",
	})

	// метрики GPS-потока
	LocationUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "location_updates_total",
		Help: "Total number of GPS updates applied",
	})

	LocationParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "location_parse_errors_total",
		Help: "Total number of malformed GPS lines discarded",
	})
)

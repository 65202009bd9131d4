package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	VehicleID  string
	DriverID   string
	DriverName string

	// Заглушка скорости: спидометр пока не подключён, шлём константу
	Speed float64

	SerialConfig    SerialConfig
	TelemetryConfig TelemetryConfig
	CommandConfig   CommandConfig

	EARThreshold    float64
	EARConsecFrames int
	FrameInterval   time.Duration

	DefaultLat float64
	DefaultLng float64

	RESTPort string
	LogLevel string
}

type SerialConfig struct {
	// Пустой Port означает симуляцию без железа
	Port        string
	BaudRate    int
	ReadTimeout time.Duration
}

type TelemetryConfig struct {
	APIURL            string
	HTTPTimeout       time.Duration
	HeartbeatInterval time.Duration
	Workers           int
	QueueSize         int
}

type CommandConfig struct {
	SirenAPIURL      string
	HTTPTimeout      time.Duration
	PollInterval     time.Duration
	MaxAge           time.Duration
	SirenDuration    time.Duration
	EngineResetDelay time.Duration

	// Правило выбора поля с идентификатором команды: "auto", "_id" или "id".
	// Сервер в разных версиях схемы отдаёт и то и другое
	IDField        string
	RequirePending bool
}

func LoadConfig() *Config {
	// .env необязателен — при его отсутствии берём системное окружение
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		VehicleID:  getEnv("VEHICLE_ID", "BUS12"),
		DriverID:   getEnv("DRIVER_ID", "DRV007"),
		DriverName: getEnv("DRIVER_NAME", "Karimul Driver"),
		Speed:      getEnvAsFloat("SPEED", 50),

		SerialConfig: SerialConfig{
			Port:        getEnv("SERIAL_PORT", ""),
			BaudRate:    getEnvAsInt("SERIAL_BAUD", 115200),
			ReadTimeout: getEnvAsDuration("SERIAL_READ_TIMEOUT", time.Second),
		},

		TelemetryConfig: TelemetryConfig{
			APIURL:            getEnv("API_URL", "https://fleetguard-six.vercel.app/api/data"),
			HTTPTimeout:       getEnvAsDuration("HTTP_TIMEOUT", 2*time.Second),
			HeartbeatInterval: getEnvAsDuration("HEARTBEAT_INTERVAL", 5*time.Second),
			Workers:           getEnvAsInt("TELEMETRY_WORKERS", 4),
			QueueSize:         getEnvAsInt("TELEMETRY_QUEUE", 64),
		},

		CommandConfig: CommandConfig{
			SirenAPIURL:      getEnv("SIREN_API_URL", "https://fleetguard-six.vercel.app/api/siren"),
			HTTPTimeout:      getEnvAsDuration("HTTP_TIMEOUT", 2*time.Second),
			PollInterval:     getEnvAsDuration("POLL_INTERVAL", time.Second),
			MaxAge:           getEnvAsDuration("COMMAND_MAX_AGE", 5*time.Second),
			SirenDuration:    getEnvAsDuration("SIREN_DURATION", 10*time.Second),
			EngineResetDelay: getEnvAsDuration("ENGINE_RESET_DELAY", time.Second),
			IDField:          getEnv("COMMAND_ID_FIELD", "auto"),
			RequirePending:   getEnvAsBool("COMMAND_REQUIRE_PENDING", true),
		},

		EARThreshold:    getEnvAsFloat("EAR_THRESHOLD", 0.25),
		EARConsecFrames: getEnvAsInt("EAR_CONSEC_FRAMES", 20),
		FrameInterval:   getEnvAsDuration("FRAME_INTERVAL", 33*time.Millisecond),

		DefaultLat: getEnvAsFloat("GPS_LAT", 24.879915),
		DefaultLng: getEnvAsFloat("GPS_LNG", 88.271300),

		RESTPort: getEnv("REST_PORT", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsDuration принимает либо Go-нотацию ("5s", "500ms"), либо голое число секунд
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}

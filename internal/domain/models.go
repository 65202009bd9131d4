package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Point — 2D-координата лендмарка (нормализованная, как отдаёт vision-процесс)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EyeLandmarks — шесть точек одного глаза в фиксированном порядке:
// внешний угол, два верхних века, внутренний угол, два нижних века
type EyeLandmarks [6]Point

type FaceLandmarks struct {
	Left  EyeLandmarks `json:"left"`
	Right EyeLandmarks `json:"right"`
}

// Frame — один кадр от vision-коллаборатора; Face == nil, если лицо не найдено
type Frame struct {
	ID        uuid.UUID      `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Face      *FaceLandmarks `json:"face,omitempty"`
}

// Location — последняя известная GPS-точка
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// AlertStatus сериализуется как false либо "Sleeping" — формат, который ждёт бекенд
type AlertStatus bool

const (
	StatusAwake    AlertStatus = false
	StatusSleeping AlertStatus = true
)

func (s AlertStatus) MarshalJSON() ([]byte, error) {
	if s {
		return []byte(`"Sleeping"`), nil
	}
	return []byte("false"), nil
}

func (s AlertStatus) String() string {
	if s {
		return "Sleeping"
	}
	return "awake"
}

type Driver struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TelemetryEvent — снапшот состояния машины; один экземпляр на отправку,
// после конструирования не изменяется
type TelemetryEvent struct {
	VehicleID string      `json:"vehicleId"`
	Speed     float64     `json:"speed"`
	GPS       Location    `json:"gps"`
	Alert     AlertStatus `json:"alert"`
	Driver    Driver      `json:"driver"`
	Timestamp float64     `json:"timestamp"`
}

// Действия, которые сервер присылает через очередь команд
const (
	ActionTriggerAlarm = "TRIGGER_ALARM"
	ActionKillEngine   = "KILL_ENGINE"
	ActionReset        = "RESET"
)

const CommandStatusPending = "PENDING"

// RemoteCommand — команда из очереди. Разные версии схемы сервера кладут
// идентификатор то в "_id", то в "id", поэтому декодируются оба поля
type RemoteCommand struct {
	MongoID   string  `json:"_id"`
	ID        string  `json:"id"`
	VehicleID string  `json:"vehicleId"`
	Command   string  `json:"command"`
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"` // unix-секунды, выставляет сервер
}

// Key возвращает идентификатор команды по правилу из конфига: "_id", "id" или "auto"
func (c *RemoteCommand) Key(field string) string {
	switch field {
	case "_id":
		return c.MongoID
	case "id":
		return c.ID
	default:
		if c.MongoID != "" {
			return c.MongoID
		}
		return c.ID
	}
}

func (c *RemoteCommand) IssuedAt() time.Time {
	sec, frac := math.Modf(c.Timestamp)
	return time.Unix(int64(sec), int64(frac*1e9))
}

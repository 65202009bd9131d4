package vision

import (
	"math"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
)

// EAR считает eye aspect ratio по шести точкам века:
// (‖p1−p5‖ + ‖p2−p4‖) / (2·‖p0−p3‖). Низкие значения — закрытый глаз
func EAR(eye domain.EyeLandmarks) float64 {
	a := dist(eye[1], eye[5])
	b := dist(eye[2], eye[4])
	c := dist(eye[0], eye[3])
	if c == 0 {
		// вырожденная геометрия (совпали углы глаза): считаем глаз открытым,
		// чтобы не делить на ноль
		return 1.0
	}
	return (a + b) / (2.0 * c)
}

// FaceScore — среднее по двум глазам единственного отслеживаемого лица
func FaceScore(face *domain.FaceLandmarks) float64 {
	return (EAR(face.Left) + EAR(face.Right)) / 2.0
}

func dist(p, q domain.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

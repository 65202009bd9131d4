package vision

import (
	"context"
	"testing"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestEAR_ReferenceEye(t *testing.T) {
	// A = B = 0.4, C = 1 -> (0.4+0.4)/2 = 0.4
	eye := domain.EyeLandmarks{
		{X: 0, Y: 0},
		{X: 0.3, Y: 0.2},
		{X: 0.7, Y: 0.2},
		{X: 1, Y: 0},
		{X: 0.7, Y: -0.2},
		{X: 0.3, Y: -0.2},
	}

	assert.InDelta(t, 0.4, EAR(eye), 1e-9)
}

func TestEAR_DegenerateEyeCountsAsOpen(t *testing.T) {
	// совпавшие углы глаза: горизонталь нулевой длины
	var eye domain.EyeLandmarks
	eye[1] = domain.Point{X: 0, Y: 0.2}
	eye[5] = domain.Point{X: 0, Y: -0.2}

	assert.Equal(t, 1.0, EAR(eye))
}

func TestEAR_SyntheticEyeMatchesOpenness(t *testing.T) {
	tests := []struct {
		name     string
		openness float64
	}{
		{"closed", 0.1},
		{"threshold", 0.25},
		{"open", 0.4},
		{"wide open", 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.openness, EAR(SyntheticEye(tt.openness)), 1e-9)
		})
	}
}

func TestFaceScore_MeanOfBothEyes(t *testing.T) {
	face := &domain.FaceLandmarks{
		Left:  SyntheticEye(0.4),
		Right: SyntheticEye(0.2),
	}

	assert.InDelta(t, 0.3, FaceScore(face), 1e-9)
}

func TestSimSource_EmitsFrames(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	source := NewSimSource(time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := make(chan *domain.Frame, 16)
	go source.Run(ctx, frames)

	for i := 0; i < 5; i++ {
		select {
		case frame := <-frames:
			assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", frame.ID.String())
			assert.False(t, frame.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("no frame produced within a second")
		}
	}
}

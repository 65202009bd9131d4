package actuator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("device disconnected")
}

func TestGateway_CommandBytes(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	tests := []struct {
		name     string
		send     func(g *Gateway)
		expected byte
	}{
		{"arm", func(g *Gateway) { g.Arm() }, 'A'},
		{"disarm", func(g *Gateway) { g.Disarm() }, 'S'},
		{"alarm on", func(g *Gateway) { g.AlarmOn() }, 'B'},
		{"engine kill", func(g *Gateway) { g.KillEngine() }, 'K'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			gateway := NewGateway(&buf, logger)

			tt.send(gateway)

			assert.Equal(t, []byte{tt.expected}, buf.Bytes())
		})
	}
}

func TestGateway_WriteFailureIsSwallowed(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	gateway := NewGateway(failingWriter{}, logger)

	// сбой транспорта не должен дойти до вызывающего
	assert.NotPanics(t, func() {
		gateway.Arm()
		gateway.AlarmOn()
		gateway.Disarm()
	})
	assert.False(t, gateway.Simulated())
}

func TestGateway_SimulationMode(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	gateway := NewGateway(nil, logger)

	assert.True(t, gateway.Simulated())
	assert.NotPanics(t, func() {
		gateway.Arm()
		gateway.KillEngine()
	})
}

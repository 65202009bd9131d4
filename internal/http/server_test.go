package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SAHARIARSUPTO/FleetGuard/internal/domain"
	"github.com/SAHARIARSUPTO/FleetGuard/internal/drowsiness"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubState struct {
	state drowsiness.State
}

func (s stubState) Snapshot() drowsiness.State {
	return s.state
}

type stubLocation struct {
	loc domain.Location
}

func (s stubLocation) Snapshot() domain.Location {
	return s.loc
}

func newTestServer(alert bool) *Server {
	logger, _ := zap.NewDevelopment()
	return NewServer(
		":8080",
		stubState{drowsiness.State{ClosedFrames: 7, Alert: alert, LastEAR: 0.18}},
		stubLocation{domain.Location{Lat: 24.5, Lng: 88.1}},
		"BUS12",
		domain.Driver{ID: "DRV007", Name: "Karimul Driver"},
		50,
		true,
		logger,
	)
}

func TestServer_HealthCheck(t *testing.T) {
	server := newTestServer(false)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), `"simulation":true`)
}

func TestServer_GetStatus(t *testing.T) {
	server := newTestServer(true)

	req := httptest.NewRequest("GET", "/api/v1/status", nil)
	w := httptest.NewRecorder()

	server.server.Handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status Status
	err := json.Unmarshal(w.Body.Bytes(), &status)
	assert.NoError(t, err)
	assert.Equal(t, "BUS12", status.VehicleID)
	assert.Equal(t, "DRV007", status.Driver.ID)
	assert.True(t, status.Alert)
	assert.Equal(t, 7, status.ClosedFrames)
	assert.InDelta(t, 0.18, status.LastEAR, 1e-9)
	assert.Equal(t, 24.5, status.GPS.Lat)
	assert.True(t, status.Simulation)
}

func TestServer_WebsocketStreamsStatus(t *testing.T) {
	server := newTestServer(false)

	ts := httptest.NewServer(server.server.Handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	assert.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var status Status
	err = conn.ReadJSON(&status)
	assert.NoError(t, err)
	assert.Equal(t, "BUS12", status.VehicleID)
	assert.False(t, status.Alert)
}

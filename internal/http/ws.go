package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// период пуша статуса в websocket дашборда
const wsPushInterval = time.Second

// handleWS отдаёт живой поток состояния: тот же снапшот, что /api/v1/status,
// раз в секунду, пока клиент не отвалится
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("[HTTP] websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.logger.Info("[HTTP] dashboard client connected", zap.String("ip", r.RemoteAddr))

	// читатель нужен только чтобы заметить закрытие со стороны клиента
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteJSON(s.status()); err != nil {
				s.logger.Debug("[HTTP] dashboard client gone", zap.Error(err))
				return
			}
		case <-done:
			s.logger.Info("[HTTP] dashboard client disconnected", zap.String("ip", r.RemoteAddr))
			return
		}
	}
}

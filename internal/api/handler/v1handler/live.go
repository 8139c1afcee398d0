package v1handler

import (
	"context"
	"medscan/pkg/logger"
	"net/http"
	"time"

	"github.com/go-faster/jx"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = livePongWait * 9 / 10
)

var upgrader = websocket.Upgrader{ //nolint: gochecknoglobals
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// bearer tokens, not cookies, authenticate the stream
	CheckOrigin: func(*http.Request) bool { return true },
}

// Live upgrades to a websocket and sends every pipeline state change as a
// JSON text message, starting with the current state. Messages from the
// client are ignored.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Debug(r.Context(), "could not upgrade live stream", zap.Error(err))

		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(livePongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(livePingPeriod)
	defer ping.Stop()

	updates := h.deps.Pipeline.Subscribe(ctx)
	for {
		select {
		case scan, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(liveWriteWait))

				return
			}

			var e jx.Encoder
			encodeScan(&e, scan)
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, e.Bytes()); err != nil {
				logger.Debug(ctx, "live stream closed", zap.Error(err))

				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}

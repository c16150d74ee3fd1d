package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shandysiswandi/gomodoro/internal/timer/entity"
	"github.com/shandysiswandi/gomodoro/internal/timer/usecase"
)

var (
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	writeDeadline = 4 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxCommandSize int64 = 1024
)

var errUnknownAction = errors.New("unknown action")

// wsConn serializes writes; gorilla/websocket allows one concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func (c *wsConn) writeFrame(event string, data any) error {
	b, err := json.Marshal(wsFrame{Event: event, Data: data})
	if err != nil {
		return err
	}
	return c.write(websocket.TextMessage, b)
}

// WebSocketTimer streams timer updates over a WebSocket and accepts
// start, pause and reset commands from the client.
// @Summary Timer WebSocket
// @Description Sends {"event":"timer","data":{...}} frames on every change and once per second while running. Accepts {"action":"start"|"pause"|"reset","duration":n}.
// @Tags Timer
// @Success 101 {string} string "Switching Protocols"
// @Router /api/v1/timer/ws [get]
func (h *HTTPEndpoint) WebSocketTimer(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "timer ws: cannot upgrade", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	wc := &wsConn{conn: conn}
	defer func() {
		_ = wc.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	if err := wc.writeFrame("connected", map[string]string{"message": "connected"}); err != nil {
		return
	}

	go h.readCommands(ctx, cancel, wc)

	send := func(evt usecase.StreamEvent) bool {
		if err := wc.writeFrame("timer", evt); err != nil {
			slog.DebugContext(ctx, "timer ws: write", "error", err)
			return false
		}
		return true
	}
	ping := func() bool {
		return wc.write(websocket.PingMessage, nil) == nil
	}

	h.pump(ctx, pingPeriod, send, ping)
}

func (h *HTTPEndpoint) readCommands(ctx context.Context, cancel context.CancelFunc, wc *wsConn) {
	defer cancel()

	conn := wc.conn
	conn.SetReadLimit(maxCommandSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.DebugContext(ctx, "timer ws: client gone", "error", err)
			}
			return
		}

		var cmd wsCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			_ = wc.writeFrame("error", map[string]string{"message": "Invalid request body"})
			continue
		}

		if err := h.execCommand(ctx, cmd); err != nil {
			_ = wc.writeFrame("error", map[string]string{"message": err.Error()})
		}
	}
}

// execCommand applies a client command. The resulting state reaches the
// client through the stream like any other change.
func (h *HTTPEndpoint) execCommand(ctx context.Context, cmd wsCommand) error {
	var err error
	switch cmd.Action {
	case "start":
		_, err = h.uc.Start(ctx)
	case "pause":
		_, err = h.uc.Pause(ctx)
	case "reset":
		var in usecase.ResetInput
		if cmd.Duration != nil {
			d, _ := entity.ParseSeconds(cmd.Duration)
			in.Duration = &d
		}
		_, err = h.uc.Reset(ctx, in)
	default:
		err = errUnknownAction
	}

	return err
}

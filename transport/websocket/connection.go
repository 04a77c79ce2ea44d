package websocket

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// connection adapts one websocket to entity.Conn. Send and closeSend are only
// called from the hub goroutine; the pumps run on their own goroutines.
type connection struct {
	id     string
	ws     *websocket.Conn
	send   chan []byte
	logger *slog.Logger

	closed bool
}

func newConnection(logger *slog.Logger, ws *websocket.Conn, sendBuffer int) *connection {
	id := uuid.NewString()

	return &connection{
		id:     id,
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		logger: logger.With("connID", id),
	}
}

// Send - encodes and queues a message. A client that cannot keep up is cut off
// rather than allowed to stall the hub.
func (that *connection) Send(opCode string, data any) {
	if that.closed {
		return
	}

	frame, err := encode(opCode, data)
	if err != nil {
		that.logger.Error("failed to encode message", "opCode", opCode, "error", err)
		return
	}

	select {
	case that.send <- frame:
	default:
		that.logger.Warn("send buffer full, closing connection", "opCode", opCode)
		that.closeSend()
	}
}

func (that *connection) closeSend() {
	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}

// readPump - forwards every text frame to the hub until the socket fails.
func (that *connection) readPump(hub *Hub, maxMessageSize int64) {
	log := that.logger.With("method", "readPump")

	defer hub.leave(that)

	that.ws.SetReadLimit(maxMessageSize)
	if err := that.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Error("failed to set read deadline", "error", err)
		return
	}
	that.ws.SetPongHandler(func(string) error {
		return that.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, raw, err := that.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			log.Debug("dropping non-text frame", "type", messageType)
			continue
		}

		if !hub.receive(that, raw) {
			return
		}
	}
}

// writePump - writes queued frames and keeps the peer alive with pings.
func (that *connection) writePump() {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
	}()

	for {
		select {
		case frame, ok := <-that.send:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Debug("failed to write frame", "error", err)
				}
				return
			}
		case <-ticker.C:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

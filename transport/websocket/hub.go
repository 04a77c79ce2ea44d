package websocket

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type lobby interface {
	Connect(conn entity.Conn) (*entity.Client, error)
	Disconnect(client *entity.Client)
	ListPINs(client *entity.Client)
	Challenge(client *entity.Client, targetPIN string) error
	RespondToChallenge(client *entity.Client, accept bool) error
	SubmitTurn(client *entity.Client, x, y int) error
}

type eventKind int

const (
	eventJoin eventKind = iota
	eventFrame
	eventLeave
)

type inbound struct {
	kind eventKind
	conn *connection
	raw  []byte
}

// Hub serializes every connection event onto a single goroutine, so the lobby
// and everything behind it never sees concurrent calls.
type Hub struct {
	logger *slog.Logger
	lobby  lobby

	inbound chan inbound
	done    chan struct{}
	clients map[*connection]*entity.Client

	handlers map[string]func(client *entity.Client, msg *Message) error
}

func NewHub(logger *slog.Logger, lobby lobby) *Hub {
	hub := &Hub{
		logger:  logger.With("component", "hub"),
		lobby:   lobby,
		inbound: make(chan inbound),
		done:    make(chan struct{}),
		clients: make(map[*connection]*entity.Client),

		handlers: make(map[string]func(*entity.Client, *Message) error),
	}

	hub.handlers[entity.OpChallenge] = hub.handleChallenge
	hub.handlers[entity.OpChallengeResponse] = hub.handleChallengeResponse
	hub.handlers[entity.OpGameSubmitTurn] = hub.handleSubmitTurn
	hub.handlers[entity.OpGetPINs] = hub.handleGetPINs

	return hub
}

// Run - processes events until ctx is canceled, then closes every connection.
func (that *Hub) Run(ctx context.Context) {
	defer close(that.done)

	for {
		select {
		case <-ctx.Done():
			that.shutdown()
			return
		case event := <-that.inbound:
			that.dispatch(event)
		}
	}
}

func (that *Hub) join(conn *connection) bool {
	return that.post(inbound{kind: eventJoin, conn: conn})
}

func (that *Hub) receive(conn *connection, raw []byte) bool {
	return that.post(inbound{kind: eventFrame, conn: conn, raw: raw})
}

func (that *Hub) leave(conn *connection) {
	that.post(inbound{kind: eventLeave, conn: conn})
}

// post - hands an event to Run. Returns false once the hub has stopped.
func (that *Hub) post(event inbound) bool {
	select {
	case that.inbound <- event:
		return true
	case <-that.done:
		return false
	}
}

func (that *Hub) dispatch(event inbound) {
	switch event.kind {
	case eventJoin:
		that.onJoin(event.conn)
	case eventFrame:
		that.onFrame(event.conn, event.raw)
	case eventLeave:
		that.onLeave(event.conn)
	}
}

func (that *Hub) onJoin(conn *connection) {
	client, err := that.lobby.Connect(conn)
	if err != nil {
		that.logger.Error("failed to register connection", "connID", conn.id, "error", err)
		conn.closeSend()
		return
	}

	that.clients[conn] = client
}

func (that *Hub) onFrame(conn *connection, raw []byte) {
	log := that.logger.With("method", "onFrame", "connID", conn.id)

	client, ok := that.clients[conn]
	if !ok {
		return
	}

	msg, err := decode(raw)
	if err != nil {
		log.Debug("dropping frame", "error", err)
		return
	}

	handler, ok := that.handlers[msg.OpCode]
	if !ok {
		log.Debug("dropping frame with unknown opCode", "opCode", msg.OpCode)
		return
	}

	if err = handler(client, msg); err != nil {
		if errors.Is(err, apperror.ErrMalformedMessage) {
			log.Debug("dropping frame", "opCode", msg.OpCode, "error", err)
			return
		}

		log.Debug("request rejected", "opCode", msg.OpCode, "pin", client.PIN, "error", err)
	}
}

func (that *Hub) onLeave(conn *connection) {
	client, ok := that.clients[conn]
	if ok {
		delete(that.clients, conn)
		that.lobby.Disconnect(client)
	}

	conn.closeSend()
}

func (that *Hub) shutdown() {
	that.logger.Info("closing connections", "count", len(that.clients))

	for conn, client := range that.clients {
		delete(that.clients, conn)
		that.lobby.Disconnect(client)
		conn.closeSend()
	}
}

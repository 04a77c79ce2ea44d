package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/events"
	"github.com/rocketscienceinc/tictactoe-duel/internal/tictactoe"
)

type lobbyRegistry interface {
	Register(conn entity.Conn) (*entity.Client, error)
	Unregister(pin string) bool
	Lookup(pin string) (*entity.Client, error)
	List(excluding string) []string
}

type LobbyOption func(*Lobby)

// WithMoveErrorReply makes rejected moves answer the submitter over game-err
// instead of being ignored.
func WithMoveErrorReply(enabled bool) LobbyOption {
	return func(that *Lobby) {
		that.moveErrorReply = enabled
	}
}

// Lobby is the entry point for connection lifecycle events and inbound
// requests. Every call must come from the same goroutine.
type Lobby struct {
	logger      *slog.Logger
	registry    lobbyRegistry
	coordinator *Coordinator
	publisher   events.Publisher

	moveErrorReply bool
}

func NewLobby(logger *slog.Logger, registry lobbyRegistry, publisher events.Publisher, opts ...LobbyOption) *Lobby {
	lobby := &Lobby{
		logger:    logger.With("component", "lobby"),
		registry:  registry,
		publisher: publisher,
	}

	lobby.coordinator = NewCoordinator(logger, registry, func(a, b *entity.Client) entity.Session {
		return tictactoe.NewRoom(logger, publisher, a, b)
	})

	for _, opt := range opts {
		opt(lobby)
	}

	return lobby
}

// Connect - registers conn and pushes the assigned PIN to it.
func (that *Lobby) Connect(conn entity.Conn) (*entity.Client, error) {
	client, err := that.registry.Register(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to register client: %w", err)
	}

	client.Send(entity.OpPIN, entity.PINData{PIN: client.PIN})

	that.publisher.Publish(events.New(events.KindClientConnected, client.PIN))
	that.logger.Info("client connected", "pin", client.PIN)

	return client, nil
}

// Disconnect - tears down client's pairing and forgets it. Calling it twice is harmless.
func (that *Lobby) Disconnect(client *entity.Client) {
	if _, err := that.registry.Lookup(client.PIN); err != nil {
		return
	}

	that.coordinator.Withdraw(client)
	that.registry.Unregister(client.PIN)

	that.publisher.Publish(events.New(events.KindClientDisconnected, client.PIN))
	that.logger.Info("client disconnected", "pin", client.PIN)
}

func (that *Lobby) ListPINs(client *entity.Client) {
	client.Send(entity.OpGetPINs, entity.PINsData{PINs: that.registry.List(client.PIN)})
}

func (that *Lobby) Challenge(client *entity.Client, targetPIN string) error {
	if err := that.coordinator.Challenge(client, targetPIN); err != nil {
		return fmt.Errorf("challenge %s: %w", targetPIN, err)
	}

	return nil
}

func (that *Lobby) RespondToChallenge(client *entity.Client, accept bool) error {
	if _, err := that.coordinator.Respond(client, accept); err != nil {
		return fmt.Errorf("respond to challenge: %w", err)
	}

	return nil
}

// SubmitTurn - forwards a move to the client's session.
func (that *Lobby) SubmitTurn(client *entity.Client, x, y int) error {
	session, ok := client.Session()
	if !ok {
		return that.rejectMove(client, apperror.ErrNotInGame)
	}

	if err := session.SubmitMove(client, x, y); err != nil {
		return that.rejectMove(client, err)
	}

	return nil
}

func (that *Lobby) rejectMove(client *entity.Client, err error) error {
	if that.moveErrorReply {
		client.Send(entity.OpGameErr, entity.MessageData{Message: moveErrorMessage(err)})
	}

	return fmt.Errorf("submit turn: %w", err)
}

func moveErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "It's not your turn."
	case errors.Is(err, apperror.ErrOutOfBounds):
		return "That cell is off the board."
	case errors.Is(err, apperror.ErrCellOccupied):
		return "That cell is already taken."
	case errors.Is(err, apperror.ErrNotInGame):
		return "You are not in a game."
	default:
		return "Move rejected."
	}
}

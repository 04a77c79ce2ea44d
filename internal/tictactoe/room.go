package tictactoe

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-duel/internal/events"
)

const (
	msgYourTurn     = "Make your move."
	msgOpponentTurn = "Awaiting other player."
	msgYouWin       = "You win!"
	msgTie          = "It's a tie!"
)

const (
	participantA = 0
	participantB = 1
)

var marks = [2]entity.Mark{entity.MarkX, entity.MarkO}

type publisher interface {
	Publish(event events.Event)
}

// Room referees one game between two clients, from the start notification to
// the outcome. It is the only writer of its board.
type Room struct {
	id        string
	logger    *slog.Logger
	publisher publisher

	players        [2]*entity.Client
	board          entity.Board
	turn           int
	cellsRemaining int
	outcome        entity.Outcome
}

// NewRoom - starts a game with a as X and b as O. Both clients are moved into
// the session, superseding any pending challenge, and A is asked to move.
func NewRoom(logger *slog.Logger, publisher publisher, a, b *entity.Client) *Room {
	room := &Room{
		id:             uuid.NewString(),
		publisher:      publisher,
		players:        [2]*entity.Client{a, b},
		turn:           participantA,
		cellsRemaining: entity.BoardCells,
		outcome:        entity.OutcomePending,
	}
	room.logger = logger.With("component", "room", "roomID", room.id)

	for i, player := range room.players {
		player.SetState(entity.InSession{Session: room})
		player.Send(entity.OpGameStart, entity.GameStartData{Mark: marks[i]})
	}

	room.publisher.Publish(events.New(events.KindSessionStarted, a.PIN, b.PIN).WithSession(room.id))
	room.logger.Info("game started", "x", a.PIN, "o", b.PIN)

	room.announceTurn()

	return room
}

func (that *Room) ID() string {
	return that.id
}

func (that *Room) Participants() (*entity.Client, *entity.Client) {
	return that.players[participantA], that.players[participantB]
}

func (that *Room) Board() entity.Board {
	return that.board
}

func (that *Room) TurnOwner() *entity.Client {
	return that.players[that.turn]
}

func (that *Room) CellsRemaining() int {
	return that.cellsRemaining
}

func (that *Room) Outcome() entity.Outcome {
	return that.outcome
}

// MarkOf returns the mark assigned to client, or MarkNone for a stranger.
func (that *Room) MarkOf(client *entity.Client) entity.Mark {
	idx := that.indexOf(client)
	if idx < 0 {
		return entity.MarkNone
	}

	return marks[idx]
}

// SubmitMove - validates and applies a move, then announces either the next
// turn or the outcome. A rejected move leaves the room untouched.
func (that *Room) SubmitMove(submitter *entity.Client, x, y int) error {
	if that.outcome.IsTerminal() {
		return apperror.ErrGameFinished
	}

	idx := that.indexOf(submitter)
	if idx < 0 {
		return apperror.ErrNotInGame
	}

	if idx != that.turn {
		return apperror.ErrNotYourTurn
	}

	mark := marks[idx]
	if err := that.board.Place(x, y, mark); err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	that.cellsRemaining--

	that.broadcast(entity.OpGameUpdate, entity.GameUpdateData{X: x, Y: y, Mark: mark})

	that.turn = 1 - that.turn

	if outcome := that.evaluate(); outcome.IsTerminal() {
		that.finalize(outcome)
		return nil
	}

	that.announceTurn()

	return nil
}

// Abort - ends the game because leaver disconnected. It is a no-op once an
// outcome exists.
func (that *Room) Abort(leaver *entity.Client) {
	if that.outcome.IsTerminal() {
		return
	}

	that.outcome = entity.OutcomeAborted

	message := fmt.Sprintf("%s disconnected.", leaver.PIN)
	that.broadcast(entity.OpGameErr, entity.MessageData{Message: message})

	that.release()

	that.publish(events.KindSessionAborted)
	that.logger.Info("game aborted", "leaver", leaver.PIN)
}

func (that *Room) evaluate() entity.Outcome {
	switch that.board.Winner() {
	case marks[participantA]:
		return entity.OutcomeAWins
	case marks[participantB]:
		return entity.OutcomeBWins
	}

	if that.cellsRemaining == 0 {
		return entity.OutcomeDraw
	}

	return entity.OutcomePending
}

func (that *Room) finalize(outcome entity.Outcome) {
	that.outcome = outcome

	a, b := that.Participants()

	switch outcome {
	case entity.OutcomeAWins:
		a.Send(entity.OpGameOver, entity.MessageData{Message: msgYouWin})
		b.Send(entity.OpGameOver, entity.MessageData{Message: fmt.Sprintf("%s wins!", a.PIN)})
	case entity.OutcomeBWins:
		a.Send(entity.OpGameOver, entity.MessageData{Message: fmt.Sprintf("%s wins!", b.PIN)})
		b.Send(entity.OpGameOver, entity.MessageData{Message: msgYouWin})
	default:
		that.broadcast(entity.OpGameOver, entity.MessageData{Message: msgTie})
	}

	that.release()

	that.publish(events.KindSessionFinished)
	that.logger.Info("game over", "outcome", outcome.String())
}

// release returns both participants to the unattached state. Any stale
// challenge state is cleared along with the session.
func (that *Room) release() {
	for _, player := range that.players {
		if session, ok := player.Session(); ok && session != entity.Session(that) {
			continue
		}
		player.Release()
	}
}

func (that *Room) announceTurn() {
	that.players[that.turn].Send(entity.OpGameTakeTurnMe, entity.MessageData{Message: msgYourTurn})
	that.players[1-that.turn].Send(entity.OpGameTakeTurnOther, entity.MessageData{Message: msgOpponentTurn})
}

func (that *Room) broadcast(opCode string, data any) {
	for _, player := range that.players {
		player.Send(opCode, data)
	}
}

func (that *Room) publish(kind events.Kind) {
	a, b := that.Participants()
	that.publisher.Publish(events.New(kind, a.PIN, b.PIN).WithSession(that.id).WithOutcome(that.outcome.String()))
}

func (that *Room) indexOf(client *entity.Client) int {
	for i, player := range that.players {
		if player == client {
			return i
		}
	}

	return -1
}

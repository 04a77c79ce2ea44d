package usecase

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

type clientRegistry interface {
	Lookup(pin string) (*entity.Client, error)
}

// RoomFactory starts a session between challenger a and responder b.
type RoomFactory func(a, b *entity.Client) entity.Session

// Coordinator runs the challenge handshake. It only touches the two clients
// a request involves and must be driven from a single goroutine.
type Coordinator struct {
	logger   *slog.Logger
	registry clientRegistry
	newRoom  RoomFactory
}

func NewCoordinator(logger *slog.Logger, registry clientRegistry, newRoom RoomFactory) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "coordinator"),
		registry: registry,
		newRoom:  newRoom,
	}
}

// Challenge - source invites the client behind targetPIN. On failure only the
// source is told, over challenge-err, and neither client changes state.
func (that *Coordinator) Challenge(source *entity.Client, targetPIN string) error {
	log := that.logger.With("method", "Challenge", "source", source.PIN, "target", targetPIN)

	if targetPIN == source.PIN {
		return that.reject(source, apperror.ErrSelfChallenge, "You cannot challenge yourself.")
	}

	switch source.State().(type) {
	case entity.Challenging:
		return that.reject(source, apperror.ErrAlreadyPending, "You are awaiting a challenge response.")
	case entity.Challenged:
		return that.reject(source, apperror.ErrAlreadyPending, "You have a challenge to answer first.")
	case entity.InSession:
		return that.reject(source, apperror.ErrSourceBusy, "You are in a game already.")
	}

	target, err := that.registry.Lookup(targetPIN)
	if err != nil {
		return that.reject(source, apperror.ErrTargetNotFound, fmt.Sprintf("Unable to find opponent %s.", targetPIN))
	}

	switch target.State().(type) {
	case entity.InSession:
		return that.reject(source, apperror.ErrTargetBusy, fmt.Sprintf("%s is in a game already.", targetPIN))
	case entity.Challenged, entity.Challenging:
		return that.reject(source, apperror.ErrTargetPending, fmt.Sprintf("%s is considering another challenge.", targetPIN))
	}

	source.SetState(entity.Challenging{Target: target.PIN})
	target.SetState(entity.Challenged{From: source.PIN})

	source.Send(entity.OpChallengeSent, entity.MessageData{Message: "Challenge invite sent."})
	target.Send(entity.OpChallengeInvite, entity.ChallengeInviteData{
		ChallengerPIN: source.PIN,
		Message:       fmt.Sprintf("%s has challenged you.", source.PIN),
	})

	log.Info("challenge sent")

	return nil
}

// Respond - responder answers its pending invite. Accepting promotes the
// pairing into a session with the challenger as participant A.
func (that *Coordinator) Respond(responder *entity.Client, accept bool) (entity.Session, error) {
	log := that.logger.With("method", "Respond", "responder", responder.PIN, "accept", accept)

	challenged, ok := responder.State().(entity.Challenged)
	if !ok {
		return nil, that.reject(responder, apperror.ErrNoPendingChallenge, "You have no pending challenge.")
	}

	challenger, err := that.registry.Lookup(challenged.From)
	if err != nil {
		responder.Release()
		return nil, that.reject(responder, apperror.ErrPeerDisconnected, fmt.Sprintf("%s disconnected.", challenged.From))
	}

	if !accept {
		challenger.Send(entity.OpChallengeErr, entity.MessageData{Message: "Challenge declined."})
		challenger.Release()
		responder.Release()

		log.Info("challenge declined", "challenger", challenger.PIN)

		return nil, nil
	}

	session := that.newRoom(challenger, responder)

	log.Info("challenge accepted", "challenger", challenger.PIN, "sessionID", session.ID())

	return session, nil
}

// Withdraw - unwinds leaver's pairing before it goes away: a pending
// counterpart is freed and told, a running session is aborted.
func (that *Coordinator) Withdraw(leaver *entity.Client) {
	log := that.logger.With("method", "Withdraw", "leaver", leaver.PIN)

	switch state := leaver.State().(type) {
	case entity.Challenging:
		that.releasePeer(leaver, state.Target, func(peer *entity.Client) bool {
			challenged, ok := peer.State().(entity.Challenged)
			return ok && challenged.From == leaver.PIN
		})
	case entity.Challenged:
		that.releasePeer(leaver, state.From, func(peer *entity.Client) bool {
			challenging, ok := peer.State().(entity.Challenging)
			return ok && challenging.Target == leaver.PIN
		})
	case entity.InSession:
		log.Info("aborting session", "sessionID", state.Session.ID())
		state.Session.Abort(leaver)
	}

	leaver.Release()
}

func (that *Coordinator) releasePeer(leaver *entity.Client, peerPIN string, pairedWith func(*entity.Client) bool) {
	peer, err := that.registry.Lookup(peerPIN)
	if err != nil || !pairedWith(peer) {
		return
	}

	peer.Release()
	peer.Send(entity.OpChallengeErr, entity.MessageData{Message: fmt.Sprintf("%s disconnected.", leaver.PIN)})
}

func (that *Coordinator) reject(client *entity.Client, err error, message string) error {
	that.logger.Debug("challenge request rejected", "pin", client.PIN, "error", err)

	client.Send(entity.OpChallengeErr, entity.MessageData{Message: message})

	return err
}

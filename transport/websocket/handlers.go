package websocket

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

func (that *Hub) handleChallenge(client *entity.Client, msg *Message) error {
	var req entity.ChallengeRequest
	if err := msg.bind(&req); err != nil {
		return err
	}

	if err := that.lobby.Challenge(client, req.TargetPIN); err != nil {
		return fmt.Errorf("challenge %q: %w", req.TargetPIN, err)
	}

	return nil
}

// handleChallengeResponse - anything other than an explicit true declines.
func (that *Hub) handleChallengeResponse(client *entity.Client, msg *Message) error {
	var req entity.ChallengeResponseRequest
	if err := msg.bind(&req); err != nil {
		return err
	}

	if err := that.lobby.RespondToChallenge(client, req.Response); err != nil {
		return fmt.Errorf("respond to challenge: %w", err)
	}

	return nil
}

func (that *Hub) handleSubmitTurn(client *entity.Client, msg *Message) error {
	var req entity.TurnRequest
	if err := msg.bind(&req); err != nil {
		return err
	}

	if req.X == nil || req.Y == nil {
		return fmt.Errorf("%w: turn needs both x and y", apperror.ErrMalformedMessage)
	}

	if err := that.lobby.SubmitTurn(client, *req.X, *req.Y); err != nil {
		return fmt.Errorf("submit turn (%d, %d): %w", *req.X, *req.Y, err)
	}

	return nil
}

func (that *Hub) handleGetPINs(client *entity.Client, _ *Message) error {
	that.lobby.ListPINs(client)
	return nil
}

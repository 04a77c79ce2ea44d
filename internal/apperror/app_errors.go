package apperror

import "errors"

// challenge handshake
var (
	ErrSelfChallenge      = errors.New("cannot challenge yourself")
	ErrAlreadyPending     = errors.New("already awaiting a challenge response")
	ErrSourceBusy         = errors.New("already in a game")
	ErrTargetNotFound     = errors.New("challenge target not found")
	ErrTargetBusy         = errors.New("challenge target is in a game")
	ErrTargetPending      = errors.New("challenge target is considering another challenge")
	ErrNoPendingChallenge = errors.New("no pending challenge")
)

// game room
var (
	ErrNotInGame    = errors.New("not in a game")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrOutOfBounds  = errors.New("cell is out of bounds")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrGameFinished = errors.New("game is already finished")
)

// transport
var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrPeerDisconnected = errors.New("peer disconnected")
)

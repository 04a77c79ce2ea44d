package entity

// Server to client op codes.
const (
	OpPIN               = "pin"
	OpGetPINs           = "get-pins"
	OpChallengeInvite   = "challenge-inv"
	OpChallengeSent     = "challenge-sent"
	OpChallengeErr      = "challenge-err"
	OpChallengeResponse = "challenge-response"
	OpGameStart         = "game-start"
	OpGameTakeTurnMe    = "game-take-turn-me"
	OpGameTakeTurnOther = "game-take-turn-other"
	OpGameUpdate        = "game-update"
	OpGameOver          = "game-over"
	OpGameErr           = "game-err"
)

// Client to server op codes. OpGetPINs and OpChallengeResponse are shared.
const (
	OpChallenge      = "challenge"
	OpGameSubmitTurn = "game-submit-turn"
)

type PINData struct {
	PIN string `json:"pin"`
}

type PINsData struct {
	PINs []string `json:"pins"`
}

type MessageData struct {
	Message string `json:"message"`
}

type ChallengeInviteData struct {
	ChallengerPIN string `json:"challengerPin"`
	Message       string `json:"message"`
}

type GameStartData struct {
	Mark Mark `json:"mark"`
}

type GameUpdateData struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Mark Mark `json:"mark"`
}

type ChallengeRequest struct {
	TargetPIN string `json:"targetPin"`
}

type ChallengeResponseRequest struct {
	Response bool `json:"response"`
}

// TurnRequest keeps coordinates as pointers so a missing field is distinguishable from zero.
type TurnRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

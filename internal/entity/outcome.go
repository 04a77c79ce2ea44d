package entity

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeAWins
	OutcomeBWins
	OutcomeDraw
	OutcomeAborted
)

func (that Outcome) String() string {
	switch that {
	case OutcomePending:
		return "pending"
	case OutcomeAWins:
		return "a_wins"
	case OutcomeBWins:
		return "b_wins"
	case OutcomeDraw:
		return "draw"
	case OutcomeAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

func (that Outcome) IsTerminal() bool {
	return that != OutcomePending
}

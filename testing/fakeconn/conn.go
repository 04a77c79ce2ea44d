package fakeconn

import "github.com/rocketscienceinc/tictactoe-duel/internal/entity"

// Sent is a message captured by Conn.
type Sent struct {
	OpCode string
	Data   any
}

// Conn records every message sent to it.
type Conn struct {
	Messages []Sent
}

func New() *Conn {
	return &Conn{}
}

func (that *Conn) Send(opCode string, data any) {
	that.Messages = append(that.Messages, Sent{OpCode: opCode, Data: data})
}

// OpCodes returns the op codes received so far, in order.
func (that *Conn) OpCodes() []string {
	codes := make([]string, 0, len(that.Messages))
	for _, msg := range that.Messages {
		codes = append(codes, msg.OpCode)
	}

	return codes
}

// Last returns the most recent message, or a zero Sent when nothing was received.
func (that *Conn) Last() Sent {
	if len(that.Messages) == 0 {
		return Sent{}
	}

	return that.Messages[len(that.Messages)-1]
}

// LastMessage returns the text of the most recent MessageData payload.
func (that *Conn) LastMessage() string {
	for i := len(that.Messages) - 1; i >= 0; i-- {
		switch data := that.Messages[i].Data.(type) {
		case entity.MessageData:
			return data.Message
		case entity.ChallengeInviteData:
			return data.Message
		}
	}

	return ""
}

func (that *Conn) Reset() {
	that.Messages = nil
}

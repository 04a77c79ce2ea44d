package events

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindClientConnected    Kind = "client.connected"
	KindClientDisconnected Kind = "client.disconnected"
	KindSessionStarted     Kind = "session.started"
	KindSessionFinished    Kind = "session.finished"
	KindSessionAborted     Kind = "session.aborted"
)

// Event describes a lifecycle change worth telling the outside world about.
type Event struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"session_id,omitempty"`
	PINs      []string  `json:"pins,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Time      time.Time `json:"time"`
}

func New(kind Kind, pins ...string) Event {
	return Event{
		ID:   uuid.NewString(),
		Kind: kind,
		PINs: pins,
		Time: time.Now().UTC(),
	}
}

func (that Event) WithSession(id string) Event {
	that.SessionID = id
	return that
}

func (that Event) WithOutcome(outcome string) Event {
	that.Outcome = outcome
	return that
}

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Publish(event Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

package fakeevents

import "github.com/rocketscienceinc/tictactoe-duel/internal/events"

// Recorder keeps every published event in memory.
type Recorder struct {
	Events []events.Event
}

func (that *Recorder) Publish(event events.Event) {
	that.Events = append(that.Events, event)
}

func (that *Recorder) Kinds() []events.Kind {
	kinds := make([]events.Kind, 0, len(that.Events))
	for _, event := range that.Events {
		kinds = append(kinds, event.Kind)
	}

	return kinds
}

package ecs

import (
	"github.com/phanxgames/databar"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// LabelEvent is a snapshot of a databar.StreamEvent. Label holds a copy of
// the event target so systems processing the queue later see the geometry
// as it was when the event fired.
type LabelEvent struct {
	Type      databar.StreamEventType
	Source    string
	Changed   bool
	HasTarget bool
	Label     databar.Label
}

// LabelEventType is the Donburi event type for label stream events.
var LabelEventType = events.NewEventType[LabelEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on LabelEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) databar.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event databar.StreamEvent) {
	e := LabelEvent{Type: event.Type, Source: event.Source, Changed: event.Changed}
	if event.Target != nil {
		e.HasTarget = true
		e.Label = *event.Target
	}
	LabelEventType.Publish(s.world, e)
}
